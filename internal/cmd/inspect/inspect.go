// Package inspect implements the inspect subcommand for checking how a
// single entry will be exported.
package inspect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CompassSecurity/passcsv/pkg/entry"
	"github.com/CompassSecurity/passcsv/pkg/extract"
	"github.com/CompassSecurity/passcsv/pkg/format"
	"github.com/CompassSecurity/passcsv/pkg/gpg"
	"github.com/CompassSecurity/passcsv/pkg/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	extractCfg   = extract.DefaultConfig()
	storeDir     string
	gpgBinary    string
	useAgent     bool
	showPassword bool
)

func NewInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect <entry>",
		Short: "Decrypt a single entry and show its parsed fields",
		Long: `Decrypt one entry and print the record as the export would emit it,
useful for debugging login field and exclusion settings before a full export.
The password is masked unless --show-password is set.`,
		Example: `
# Show how work/example.com will be exported
passcsv inspect work/example.com

# Check a custom exclusion against a single entry
passcsv inspect work/example.com -e "^otpauth://"
		`,
		Args: cobra.ExactArgs(1),
		Run:  Inspect,
	}

	inspectCmd.Flags().StringVarP(&storeDir, "store", "s", store.DefaultPath(), "Path to the password store directory or a snapshot archive")
	inspectCmd.Flags().StringSliceVarP(&extractCfg.LoginFields, "login-fields", "l", extractCfg.LoginFields, "Names of the fields to check for the login, first match wins")
	inspectCmd.Flags().BoolVarP(&extractCfg.GetURL, "get-url", "u", false, "Pull an url field out of the notes")
	inspectCmd.Flags().StringArrayVarP(&extractCfg.Exclude, "exclude", "e", nil, "Regexp of note lines to exclude, repeatable")
	inspectCmd.Flags().StringVar(&gpgBinary, "gpg-binary", "gpg", "Name or path of the gpg binary")
	inspectCmd.Flags().BoolVar(&useAgent, "use-agent", false, "Pass --use-agent to gpg")
	inspectCmd.Flags().BoolVar(&showPassword, "show-password", false, "Print the password in clear text")

	return inspectCmd
}

func Inspect(cmd *cobra.Command, args []string) {
	client, err := gpg.NewClient(gpgBinary, useAgent)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed setting up gpg")
	}

	extractor, err := extract.New(extractCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid extraction configuration")
	}

	st, err := store.Open(format.ExpandPath(storeDir))
	if err != nil {
		log.Fatal().Err(err).Str("store", storeDir).Msg("Failed opening password store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed cleaning up extracted store")
		}
	}()

	path := filepath.Join(st.Root, filepath.FromSlash(args[0]))
	if !strings.HasSuffix(path, store.Extension) {
		path += store.Extension
	}
	if _, err := os.Stat(path); err != nil {
		log.Fatal().Err(err).Str("entry", args[0]).Msg("Entry not found in store")
	}

	decrypted, err := client.Decrypt(cmd.Context(), path)
	if err != nil {
		log.Fatal().Err(err).Str("entry", args[0]).Msg("Decryption failed")
	}

	builder := entry.NewBuilder(true, extractor, log.Logger)
	rec := builder.Build(st.Root, path, decrypted)

	password := "********"
	if showPassword || rec.Password == "" {
		password = rec.Password
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "group:    %s\n", rec.Group)
	fmt.Fprintf(w, "name:     %s\n", rec.Name)
	fmt.Fprintf(w, "login:    %s\n", rec.User)
	fmt.Fprintf(w, "password: %s\n", password)
	fmt.Fprintf(w, "url:      %s\n", rec.URL)
	fmt.Fprintf(w, "notes:    %s\n", rec.Notes)
}
