package format

import "io/fs"

// Common file permission constants used throughout the application.
// Everything this tool writes can hold live credentials, so outputs stay
// owner-only.
const (
	// FileUserReadWrite is for files only the owner may read (rw-------).
	// Used for the CSV export and log files.
	FileUserReadWrite fs.FileMode = 0600

	// DirUserOnly is for directories only the owner may enter (rwx------).
	// Used for snapshot extraction directories.
	DirUserOnly fs.FileMode = 0700
)
