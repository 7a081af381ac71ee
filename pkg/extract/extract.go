// Package extract implements the notes parsing behind the advanced export
// format: a prioritized login field lookup, optional URL capture and regex
// based exclusion of note lines.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// fieldLine matches "name: value" shaped lines with one optional space on
// each side of the colon. The name group stops at the first colon so values
// containing colons do not leak into the field name.
var fieldLine = regexp.MustCompile(`^(.*?) ?: ?.*$`)

var urlLine = regexp.MustCompile(`(?i)^url ?: ?(.*)$`)

// Config holds the caller supplied extraction settings, shared read-only
// across all entries of a run.
type Config struct {
	// LoginFields are candidate field names for the login column, in
	// priority order. The first one discovered in the notes wins.
	LoginFields []string
	// GetURL enables promotion of "url: ..." lines into the URL column.
	GetURL bool
	// Exclude lists case insensitive regular expressions. Note lines
	// matching any of them are dropped entirely.
	Exclude []string
}

// DefaultConfig returns the extraction defaults used when neither flags nor
// a config file override them.
func DefaultConfig() Config {
	return Config{
		LoginFields: []string{"login", "user", "username", "email"},
		GetURL:      false,
		Exclude:     []string{},
	}
}

// Fields is the extraction result for one entry.
type Fields struct {
	User  string
	URL   string
	Notes string
}

type candidate struct {
	name string
	line *regexp.Regexp
}

// Extractor applies a Config to entry notes. Construct once via New and
// share; it is safe for concurrent use.
type Extractor struct {
	candidates []candidate
	getURL     bool
	exclude    []*regexp.Regexp
}

// New compiles the exclusion patterns and candidate line matchers. A pattern
// that does not compile fails here with a ConfigError, before any entry is
// touched. Candidate names are matched literally, not as patterns.
func New(cfg Config) (*Extractor, error) {
	ex := &Extractor{getURL: cfg.GetURL}

	for _, name := range cfg.LoginFields {
		ex.candidates = append(ex.candidates, candidate{
			name: strings.ToLower(name),
			line: regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(name) + ` ?: ?(.*)$`),
		})
	}

	for _, pattern := range cfg.Exclude {
		rx, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, &ConfigError{Pattern: pattern, err: err}
		}
		ex.exclude = append(ex.exclude, rx)
	}

	return ex, nil
}

// Extract runs two ordered passes over the notes: a discovery pass that
// collects the field names present, then a classification pass that drops
// excluded lines, captures the login and URL values and keeps the rest.
// Kept lines are joined with newlines and trimmed as a whole block.
//
// Discovery and classification must stay separate passes: the active login
// field is chosen from the whole text before any line is consumed, so a
// higher priority candidate wins even when it appears on a later line.
func (e *Extractor) Extract(notes string) Fields {
	lines := strings.Split(notes, "\n")

	discovered := make(map[string]struct{})
	for _, line := range lines {
		if m := fieldLine.FindStringSubmatch(line); m != nil {
			discovered[strings.ToLower(m[1])] = struct{}{}
		}
	}

	var login *regexp.Regexp
	for _, cand := range e.candidates {
		if _, ok := discovered[cand.name]; ok {
			login = cand.line
			break
		}
	}

	var fields Fields
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if e.excluded(line) {
			continue
		}

		if login != nil {
			if m := login.FindStringSubmatch(line); m != nil {
				// Repeated login lines overwrite, the last one wins.
				fields.User = m[1]
				continue
			}
		}

		if e.getURL {
			if m := urlLine.FindStringSubmatch(line); m != nil {
				fields.URL = m[1]
				continue
			}
		}

		kept = append(kept, line)
	}

	fields.Notes = strings.TrimSpace(strings.Join(kept, "\n"))
	return fields
}

// excluded reports whether any exclusion pattern matches anywhere in the
// line. Exclusion takes precedence over login and URL capture.
func (e *Extractor) excluded(line string) bool {
	for _, rx := range e.exclude {
		if rx.MatchString(line) {
			return true
		}
	}
	return false
}

// ConfigError reports an exclusion pattern that failed to compile.
type ConfigError struct {
	Pattern string
	err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid exclude pattern %q: %v", e.Pattern, e.err)
}

func (e *ConfigError) Unwrap() error {
	return e.err
}
