package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmd(t *testing.T) {
	t.Run("creates root command", func(t *testing.T) {
		cmd := NewRootCmd()
		assert.NotNil(t, cmd)
		assert.Equal(t, "passcsv", cmd.Use)
		assert.Equal(t, "Export pass(1) password stores to CSV", cmd.Short)
	})

	t.Run("has subcommands", func(t *testing.T) {
		cmd := NewRootCmd()
		assert.True(t, cmd.HasSubCommands())

		subcommands := []string{"export", "list", "inspect", "docs"}
		for _, subcmd := range subcommands {
			found, _, err := cmd.Find([]string{subcmd})
			assert.NoError(t, err)
			assert.NotNil(t, found)
		}
	})

	t.Run("docs command is hidden", func(t *testing.T) {
		cmd := NewRootCmd()
		docsCmd, _, err := cmd.Find([]string{"docs"})
		assert.NoError(t, err)
		assert.True(t, docsCmd.Hidden)
	})
}
