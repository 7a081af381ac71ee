package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func TestNewDocsCmd(t *testing.T) {
	root := &cobra.Command{Use: "passcsv"}
	cmd := NewDocsCmd(root)

	assert.Equal(t, "docs", cmd.Use)
	assert.True(t, cmd.Hidden)
	assert.NotNil(t, cmd.Flags().Lookup("directory"))
}

func TestDocsGeneratesMarkdown(t *testing.T) {
	root := &cobra.Command{Use: "passcsv", Short: "Export pass(1) password stores to CSV"}
	root.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Export a password store to CSV",
		Run:   func(cmd *cobra.Command, args []string) {},
	})

	dir := t.TempDir()
	cmd := NewDocsCmd(root)
	cmd.SetArgs([]string{"--directory", dir})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(dir, "passcsv.md"))
	assert.FileExists(t, filepath.Join(dir, "passcsv_export.md"))

	content, err := os.ReadFile(filepath.Join(dir, "passcsv_export.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "title: Export")
	assert.Contains(t, string(content), "Export a password store to CSV")
}
