// Package cmd assembles the passcsv command tree.
package cmd

import (
	"github.com/CompassSecurity/passcsv/internal/cmd/docs"
	"github.com/CompassSecurity/passcsv/internal/cmd/export"
	"github.com/CompassSecurity/passcsv/internal/cmd/inspect"
	"github.com/CompassSecurity/passcsv/internal/cmd/list"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "passcsv",
		Short: "Export pass(1) password stores to CSV",
		Long: `passcsv decrypts a password store managed by pass(1) and exports it as CSV,
plain or in the format the KeePassXC importer understands.`,
	}

	rootCmd.AddCommand(export.NewExportCmd())
	rootCmd.AddCommand(list.NewListCmd())
	rootCmd.AddCommand(inspect.NewInspectCmd())
	rootCmd.AddCommand(docs.NewDocsCmd(rootCmd))

	return rootCmd
}
