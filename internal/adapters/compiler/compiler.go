// Package compiler turns IEEE registry CSV exports into a single
// deduplicated, immutable lookup table.
package compiler

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"

	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

const minColumns = 3

// Compiler builds a Table from registry exports. It is single use per call
// to Compile and holds no state between calls.
type Compiler struct {
	logger *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for duplicate diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile reads every source in order and returns the merged table.
//
// A key seen in an earlier source wins over the same key in a later one; the
// later row is logged and dropped. Any malformed row, unknown registry code or
// read failure aborts the whole compilation and no table is returned.
func (c *Compiler) Compile(sources ...Source) (*Table, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	t := &Table{
		entries: make(map[string]domain.Record),
		stats:   Stats{ByRegistry: make(map[domain.Registry]int)},
	}

	for _, src := range sources {
		if err := c.compileSource(t, src); err != nil {
			return nil, err
		}
	}

	t.stats.Total = len(t.order)
	c.logger.Debug("registry table compiled",
		"records", t.stats.Total,
		"duplicates", t.stats.Duplicates,
		"sources", len(sources),
	)
	return t, nil
}

func (c *Compiler) compileSource(t *Table, src Source) error {
	if src.Reader == nil {
		return &SourceError{Source: src.Name, Err: errors.New("nil reader")}
	}

	reader := csv.NewReader(src.Reader)
	// Every row must have as many fields as the header.
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return &SourceError{Source: src.Name, Line: 1, Err: errors.New("missing header row")}
	}
	if err != nil {
		return &SourceError{Source: src.Name, Err: err}
	}
	if len(header) < minColumns {
		return &SourceError{Source: src.Name, Line: 1, Err: ErrMalformedRow}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return &SourceError{Source: src.Name, Line: line, Err: errors.Join(ErrMalformedRow, err)}
		}
		line, _ := reader.FieldPos(0)

		record, err := parseRow(row)
		if err != nil {
			return &SourceError{Source: src.Name, Line: line, Err: err}
		}

		key := record.Key()
		if _, seen := t.entries[key]; seen {
			t.stats.Duplicates++
			c.logger.Warn("discarding duplicate assignment",
				"key", key,
				"organization", record.Organization(),
				"source", src.Name,
				"line", line,
			)
			continue
		}

		t.entries[key] = record
		t.order = append(t.order, key)
		t.stats.ByRegistry[record.Registry()]++
	}
}

func parseRow(row []string) (domain.Record, error) {
	registry, err := domain.ParseRegistry(row[0])
	if err != nil {
		return domain.Record{}, err
	}
	key := NormalizeKey(row[1])
	if key == "" {
		return domain.Record{}, errors.Join(ErrMalformedRow, errors.New("empty assignment key"))
	}
	return domain.NewRecord(registry, key, NormalizeOrganization(row[2])), nil
}
