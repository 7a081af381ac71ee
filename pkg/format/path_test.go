package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "tilde prefix expands to home",
			path:     "~/.password-store",
			expected: filepath.Join(home, ".password-store"),
		},
		{
			name:     "nested tilde path",
			path:     "~/backups/store.zip",
			expected: filepath.Join(home, "backups", "store.zip"),
		},
		{
			name:     "absolute path unchanged",
			path:     "/var/lib/store",
			expected: "/var/lib/store",
		},
		{
			name:     "relative path unchanged",
			path:     "store",
			expected: "store",
		},
		{
			name:     "bare tilde unchanged",
			path:     "~",
			expected: "~",
		},
		{
			name:     "tilde in the middle unchanged",
			path:     "/data/~/store",
			expected: "/data/~/store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.path))
		})
	}
}
