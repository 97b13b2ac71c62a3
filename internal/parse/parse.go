// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse reads vendor export files into raw records. The CSV exports
// open with a vendor banner line, then a header row whose column names have
// changed across app versions; the parser detects the schema variant from
// the header and maps every variant to one canonical set of field names.
package parse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/trackconvert/pkg/types"
)

// ErrParse indicates that an entire input file's structure is unrecognized.
// Individual malformed rows are warnings, not ErrParse.
var ErrParse = errors.New("unparsable export file")

// Schema identifies the export header variant.
type Schema string

const (
	// SchemaPrefixed is the recent variant: most columns carry the
	// "com.samsung.health.exercise." namespace prefix.
	SchemaPrefixed Schema = "prefixed"

	// SchemaPlain is the older variant with bare column names.
	SchemaPlain Schema = "plain"
)

// fieldPrefixes are the column namespaces the prefixed schema uses. The
// exercise export namespaces its columns one way, the calories export
// another; stripping either yields the plain schema's names.
var fieldPrefixes = []string{
	"com.samsung.health.exercise.",
	"com.samsung.shealth.calories_burned.",
}

// Reader yields raw records from one export file in a single forward pass.
type Reader struct {
	f        *os.File
	csv      *csv.Reader
	schema   Schema
	fields   []string
	warnings []string
}

// Open prepares a Reader over the export CSV at path. It consumes the vendor
// banner and the header row, detects the schema variant, and verifies that
// every column in required is present under its canonical name. A header
// missing required columns is a fatal ErrParse.
func Open(path string, required ...string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: empty file", ErrParse, path)
	}
	first[0] = strings.TrimPrefix(first[0], "\uFEFF")

	// Exports open with a one-line vendor banner before the header. Some
	// hand-edited files drop it, so a first line that already looks like a
	// header is used as one.
	header := first
	if !looksLikeHeader(first) {
		header, err = cr.Read()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: missing header row", ErrParse, path)
		}
	}

	schema := detectSchema(header)
	fields := canonicalize(header, schema)

	for _, req := range required {
		if !contains(fields, req) {
			f.Close()
			return nil, fmt.Errorf("%w: %s: header lacks column %q", ErrParse, path, req)
		}
	}

	return &Reader{f: f, csv: cr, schema: schema, fields: fields}, nil
}

// Schema returns the detected header variant.
func (r *Reader) Schema() Schema {
	return r.schema
}

// Next returns the next raw record, or io.EOF when the file is exhausted.
// Empty cells become absent keys. Rows the CSV layer cannot parse are
// skipped with a recorded warning.
func (r *Reader) Next() (types.RawRecord, error) {
	for {
		row, err := r.csv.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			r.warnings = append(r.warnings, fmt.Sprintf("skipping malformed row: %v", err))
			continue
		}

		rec := make(types.RawRecord, len(r.fields))
		for i, name := range r.fields {
			if i >= len(row) {
				break
			}
			if v := strings.TrimSpace(row[i]); v != "" {
				rec[name] = v
			}
		}
		return rec, nil
	}
}

// Warnings returns messages for rows skipped during reading.
func (r *Reader) Warnings() []string {
	return r.warnings
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// looksLikeHeader reports whether a CSV line is a column row rather than the
// vendor banner. Banners are a single metadata cell; headers always carry a
// time column.
func looksLikeHeader(line []string) bool {
	if len(line) < 2 {
		return false
	}
	for _, cell := range line {
		name := strings.TrimSpace(cell)
		if name == "start_time" || name == "day_time" ||
			strings.HasSuffix(name, ".start_time") || strings.HasSuffix(name, ".day_time") {
			return true
		}
	}
	return false
}

// detectSchema probes the header for a column namespace prefix.
func detectSchema(header []string) Schema {
	for _, col := range header {
		for _, prefix := range fieldPrefixes {
			if strings.HasPrefix(strings.TrimSpace(col), prefix) {
				return SchemaPrefixed
			}
		}
	}
	return SchemaPlain
}

// canonicalize maps header columns to canonical field names. The prefixed
// schema namespaces most (not all) of its columns; stripping the prefix
// yields the plain schema's names, so downstream code sees one vocabulary.
func canonicalize(header []string, schema Schema) []string {
	fields := make([]string, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if schema == SchemaPrefixed {
			for _, prefix := range fieldPrefixes {
				name = strings.TrimPrefix(name, prefix)
			}
		}
		fields[i] = name
	}
	return fields
}

func contains(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
