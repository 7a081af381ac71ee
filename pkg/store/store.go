// Package store enumerates password store entries. The root may be the
// store directory itself or an archived snapshot of one, which is extracted
// into a private temp directory first. Snapshots hold encrypted files only,
// so extraction never puts plaintext on disk.
package store

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/CompassSecurity/passcsv/pkg/format"
	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"
	"golift.io/xtractr"
)

// Extension carried by encrypted store entries.
const Extension = ".gpg"

var vcsDirectories = []string{".git", ".hg", ".svn", ".bzr"}

// DefaultPath returns $PASSWORD_STORE_DIR when set, otherwise the
// conventional pass location.
func DefaultPath() string {
	if dir := os.Getenv("PASSWORD_STORE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join("~", ".password-store")
}

// Store is an opened entry tree. Close removes the extraction directory when
// the store was opened from a snapshot archive.
type Store struct {
	Root      string
	extracted string
}

// Open resolves root into a walkable store. A directory is used as is; a
// regular file is sniffed and, when it is a known archive format, extracted
// with owner-only modes into a temp directory that Close removes again.
func Open(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return &Store{Root: root}, nil
	}

	if !isArchive(root) {
		return nil, fmt.Errorf("%s is neither a directory nor a supported archive", root)
	}

	outDir, err := os.MkdirTemp("", "passcsv-store-")
	if err != nil {
		return nil, err
	}

	x := &xtractr.XFile{
		FilePath:  root,
		OutputDir: outDir,
		FileMode:  format.FileUserReadWrite,
		DirMode:   format.DirUserOnly,
	}

	if _, _, _, err := xtractr.ExtractFile(x); err != nil {
		_ = os.RemoveAll(outDir)
		return nil, fmt.Errorf("extracting snapshot %s: %w", root, err)
	}

	log.Debug().Str("archive", root).Str("dir", outDir).Msg("Extracted store snapshot")

	return &Store{Root: snapshotRoot(outDir), extracted: outDir}, nil
}

// Entries walks the store and returns every encrypted entry path in lexical
// traversal order. Version control metadata directories are skipped.
func (s *Store) Entries() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.Root && slices.Contains(vcsDirectories, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), Extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Close removes the snapshot extraction directory, if any.
func (s *Store) Close() error {
	if s.extracted == "" {
		return nil
	}
	return os.RemoveAll(s.extracted)
}

// isArchive sniffs the file header for a known archive format.
func isArchive(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}

	return filetype.IsArchive(head[:n])
}

// snapshotRoot descends into a single wrapping directory, the usual layout
// of tarred store backups.
func snapshotRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}
