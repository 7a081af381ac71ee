package format

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~/" to the user's home directory. Paths
// without the prefix are returned unchanged, as is "~" itself.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
