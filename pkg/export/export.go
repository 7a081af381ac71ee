// Package export drives a full password store export: walk the store,
// decrypt every entry, extract login fields and serialize CSV records.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"sync/atomic"

	"github.com/CompassSecurity/passcsv/pkg/entry"
	"github.com/CompassSecurity/passcsv/pkg/extract"
	"github.com/CompassSecurity/passcsv/pkg/store"
	"github.com/h2non/filetype"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wandb/parallel"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Decrypter turns an encrypted store file into its plaintext content.
type Decrypter interface {
	Decrypt(ctx context.Context, path string) (string, error)
}

// Options contains the configuration for a single export run.
type Options struct {
	// Base overrides the path prefix stripped from entries when deriving
	// the group, empty means the store root
	Base string
	// KPX enables login field extraction and the six column output format
	KPX bool
	// Extract holds the login and URL extraction settings
	Extract extract.Config
	// Encoding names an IANA character set for the CSV output, empty means UTF-8
	Encoding string
	// MaxFileSize skips encrypted files larger than this (in bytes), 0 means no limit
	MaxFileSize int64
	// Threads controls the number of concurrent decryptions
	Threads int
}

// DefaultOptions returns sensible default values for an export run.
func DefaultOptions() Options {
	return Options{
		Extract: extract.DefaultConfig(),
		Threads: 4,
	}
}

// Stats summarizes a finished export run.
type Stats struct {
	// Records is the number of CSV records written
	Records int
	// Skipped counts entries dropped by the size limit
	Skipped int
	// Warnings counts entries that failed to decrypt or decrypted to nothing
	Warnings int
}

// Exporter walks a store and writes one CSV record per encrypted entry.
type Exporter struct {
	store     *store.Store
	decrypter Decrypter
	builder   *entry.Builder
	opts      Options
	baseDir   string
	encoder   *encoding.Encoder
	processed atomic.Int64
	total     atomic.Int64
}

// New validates the options and prepares an Exporter. Extraction patterns
// and the output encoding are resolved here so a bad configuration fails
// before any decryption starts.
func New(st *store.Store, decrypter Decrypter, opts Options) (*Exporter, error) {
	if opts.Threads < 1 {
		opts.Threads = 1
	}

	var extractor *extract.Extractor
	if opts.KPX {
		var err error
		extractor, err = extract.New(opts.Extract)
		if err != nil {
			return nil, err
		}
	}

	e := &Exporter{
		store:     st,
		decrypter: decrypter,
		builder:   entry.NewBuilder(opts.KPX, extractor, log.Logger),
		opts:      opts,
		baseDir:   st.Root,
	}
	if opts.Base != "" {
		e.baseDir = opts.Base
	}

	if opts.Encoding != "" {
		enc, err := ianaindex.IANA.Encoding(opts.Encoding)
		if err != nil {
			return nil, fmt.Errorf("unknown output encoding %q: %w", opts.Encoding, err)
		}
		if enc == nil {
			return nil, fmt.Errorf("unknown output encoding %q", opts.Encoding)
		}
		e.encoder = encoding.ReplaceUnsupported(enc.NewEncoder())
	}

	return e, nil
}

// Run exports every entry of the store to out and returns the run summary.
// Records appear in the deterministic walk order of the store regardless of
// how many decryption threads run.
func (e *Exporter) Run(ctx context.Context, out io.Writer) (Stats, error) {
	entries, err := e.store.Entries()
	if err != nil {
		return Stats{}, err
	}
	e.total.Store(int64(len(entries)))
	log.Info().Int("entries", len(entries)).Str("store", e.store.Root).Msg("Collected password store entries")

	return e.write(out, e.decryptAll(ctx, entries))
}

// Status reports the current export progress, wired into the interactive
// status shortcut.
func (e *Exporter) Status() *zerolog.Event {
	return log.Info().
		Int64("processed", e.processed.Load()).
		Int64("total", e.total.Load())
}

type indexedRecord struct {
	index  int
	record entry.Record
	skip   bool
	warned bool
}

func (e *Exporter) decryptAll(ctx context.Context, paths []string) []indexedRecord {
	group := parallel.Collect[indexedRecord](parallel.Limited(ctx, e.opts.Threads))

	for i, path := range paths {
		// Copy the range variables: with the go directive below 1.22 they
		// are shared across iterations, not per iteration.
		i, path := i, path
		group.Go(func(ctx context.Context) (indexedRecord, error) {
			return e.processEntry(ctx, i, path), nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed waiting for parallel decryption")
	}

	// Collection order is completion order, restore the walk order.
	sort.Slice(results, func(a, b int) bool { return results[a].index < results[b].index })
	return results
}

func (e *Exporter) processEntry(ctx context.Context, index int, path string) indexedRecord {
	defer e.processed.Add(1)

	if e.opts.MaxFileSize > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > e.opts.MaxFileSize {
			log.Warn().Str("path", path).Int64("size", info.Size()).Msg("Skipping file larger than the size limit")
			return indexedRecord{index: index, skip: true}
		}
	}

	decrypted, err := e.decrypter.Decrypt(ctx, path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Could not decrypt entry")
		return indexedRecord{index: index, record: e.builder.Build(e.baseDir, path, ""), warned: true}
	}

	if decrypted == "" {
		log.Warn().Str("path", path).Msg("Entry decrypted to empty content")
		return indexedRecord{index: index, record: e.builder.Build(e.baseDir, path, ""), warned: true}
	}

	if kind := sniffBinary(decrypted); kind != "" {
		log.Warn().Str("path", path).Str("type", kind).Msg("Decrypted content looks binary, exporting as-is")
	}

	return indexedRecord{index: index, record: e.builder.Build(e.baseDir, path, decrypted)}
}

func (e *Exporter) write(out io.Writer, records []indexedRecord) (Stats, error) {
	var stats Stats

	w := out
	var tw *transform.Writer
	if e.encoder != nil {
		tw = transform.NewWriter(out, e.encoder)
		w = tw
	}

	cw := csv.NewWriter(w)
	for _, r := range records {
		if r.skip {
			stats.Skipped++
			continue
		}
		if r.warned {
			stats.Warnings++
		}
		if err := cw.Write(r.record.Columns(e.opts.KPX)); err != nil {
			return stats, fmt.Errorf("writing record %q: %w", r.record.Name, err)
		}
		stats.Records++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return stats, err
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// sniffBinary reports the detected MIME type when the decrypted content
// starts with a known binary file signature, empty for plain text.
func sniffBinary(text string) string {
	head := []byte(text)
	if len(head) > 262 {
		head = head[:262]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}
