// Package docs generates the Markdown CLI documentation.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var (
	directory string
	rootCmd   *cobra.Command
)

func NewDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "docs",
		Short:  "Generate Markdown documentation for all commands",
		Hidden: true,
		Run:    Docs,
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", "./docs", "Output directory for the generated Markdown files")
	rootCmd = root
	return cmd
}

func Docs(cmd *cobra.Command, args []string) {
	if err := os.MkdirAll(directory, os.ModePerm); err != nil {
		log.Fatal().Err(err).Msg("Failed to create docs directory")
	}

	titleCaser := cases.Title(language.Und, cases.NoLower)

	filePrepender := func(filename string) string {
		name := strings.TrimSuffix(filepath.Base(filename), ".md")
		name = strings.TrimPrefix(name, "passcsv_")
		front := map[string]interface{}{
			"title": titleCaser.String(strings.ReplaceAll(name, "_", " ")),
		}
		data, err := yaml.Marshal(front)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("---\n%s---\n\n", string(data))
	}

	linkHandler := func(s string) string {
		if s == "passcsv.md" {
			return "/"
		}

		s = strings.TrimPrefix(s, "passcsv_")
		s = strings.TrimSuffix(s, ".md")
		s = strings.ReplaceAll(s, "_", "/")
		return "/" + s
	}

	rootCmd.DisableAutoGenTag = true
	if err := doc.GenMarkdownTreeCustom(rootCmd, directory, filePrepender, linkHandler); err != nil {
		log.Fatal().Err(err).Msg("Failed to generate CLI docs")
	}

	log.Info().Str("folder", directory).Msg("Markdown successfully generated")
}
