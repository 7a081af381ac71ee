// Package entry turns decrypted password store files into flat export
// records.
package entry

import (
	"path/filepath"
	"strings"

	"github.com/CompassSecurity/passcsv/pkg/extract"
	"github.com/rs/zerolog"
)

// Record is one export row. User and URL stay empty outside the advanced
// format or when no matching note line exists.
type Record struct {
	Group    string
	Name     string
	User     string
	Password string
	URL      string
	Notes    string
}

// Columns returns the CSV projection of the record: group, name, user,
// password, url, notes in the advanced format and group, name, password,
// notes otherwise.
func (r Record) Columns(kpx bool) []string {
	if kpx {
		return []string{r.Group, r.Name, r.User, r.Password, r.URL, r.Notes}
	}
	return []string{r.Group, r.Name, r.Password, r.Notes}
}

// Builder assembles records from decrypted entry text. In the advanced
// format the notes run through the field extractor, otherwise they are kept
// verbatim.
type Builder struct {
	kpx       bool
	extractor *extract.Extractor
	log       zerolog.Logger
}

// NewBuilder returns a Builder logging through the given logger. The
// extractor may be nil when kpx is false.
func NewBuilder(kpx bool, extractor *extract.Extractor, logger zerolog.Logger) *Builder {
	return &Builder{kpx: kpx, extractor: extractor, log: logger}
}

// Build derives the record location from the entry path relative to base and
// splits the decrypted text at the first newline into password and notes.
// Empty text still yields a record, with empty password and notes.
func (b *Builder) Build(base, path, decrypted string) Record {
	group, name := Location(base, path)
	b.log.Debug().Str("group", group).Str("name", name).Msg("Processing entry")

	password, notes := splitPassword(decrypted)

	rec := Record{Group: group, Name: name, Password: password, Notes: notes}
	if b.kpx && b.extractor != nil {
		fields := b.extractor.Extract(notes)
		rec.User = fields.User
		rec.URL = fields.URL
		rec.Notes = fields.Notes
	}

	return rec
}

// Location splits an entry path into its group, the directory relative to
// base with forward slashes and "" at the store root, and its name, the base
// name without the final extension. A file whose whole name is the extension
// keeps its name.
func Location(base, path string) (group, name string) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}

	group = filepath.ToSlash(filepath.Dir(rel))
	if group == "." {
		group = ""
	}

	file := filepath.Base(rel)
	name = strings.TrimSuffix(file, filepath.Ext(file))
	if name == "" {
		name = file
	}

	return group, name
}

func splitPassword(decrypted string) (password, notes string) {
	parts := strings.SplitN(decrypted, "\n", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
