// Package list implements the list subcommand.
package list

import (
	"fmt"

	"github.com/CompassSecurity/passcsv/pkg/entry"
	"github.com/CompassSecurity/passcsv/pkg/format"
	"github.com/CompassSecurity/passcsv/pkg/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var storeDir string

func NewListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of a password store",
		Long:  "Walk the password store and print one line per entry without decrypting anything.",
		Example: `
# List all entries of the default store
passcsv list

# List the entries inside a store snapshot archive
passcsv list --store backup.zip
		`,
		Run: List,
	}

	listCmd.Flags().StringVarP(&storeDir, "store", "s", store.DefaultPath(), "Path to the password store directory or a snapshot archive")

	return listCmd
}

func List(cmd *cobra.Command, args []string) {
	st, err := store.Open(format.ExpandPath(storeDir))
	if err != nil {
		log.Fatal().Err(err).Str("store", storeDir).Msg("Failed opening password store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed cleaning up extracted store")
		}
	}()

	entries, err := st.Entries()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed walking password store")
	}

	for _, path := range entries {
		group, name := entry.Location(st.Root, path)
		if group != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", group, name)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	}
}
