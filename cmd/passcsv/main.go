package main

import (
	"github.com/CompassSecurity/passcsv/internal/cmd"
	"github.com/CompassSecurity/passcsv/internal/cmd/common"
	"github.com/spf13/cobra"
)

func main() {
	common.Run(newRootCmd())
}

func newRootCmd() *cobra.Command {
	rootCmd := cmd.NewRootCmd()
	rootCmd.Version = common.Version

	common.SetupPersistentPreRun(rootCmd)
	common.AddCommonFlags(rootCmd)

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	return rootCmd
}
