// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package csvout writes import-ready CSV files in fixed-size chunks. The
// import pipeline rejects large uploads, so every N rows a new numbered
// file is started. Each file opens with the vendor banner the importer
// keys on ("Body", "Activities"), then a header row; every field is
// quoted, which is what the importer's own exports look like.
package csvout

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer emits rows across numbered chunk files. Files are written to a
// temporary path and renamed on completion; a failed run leaves no partial
// chunk behind.
type Writer struct {
	outDir    string
	banner    string
	pattern   string
	columns   []string
	chunkSize int

	rows    int
	file    *os.File
	buf     *bufio.Writer
	tmpPath string
	dest    string
	files   []string
}

// NewWriter returns a Writer emitting chunkSize rows per file. pattern must
// contain one %d verb for the chunk number, which starts at 1.
func NewWriter(outDir, banner, pattern string, columns []string, chunkSize int) (*Writer, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	return &Writer{
		outDir:    outDir,
		banner:    banner,
		pattern:   pattern,
		columns:   columns,
		chunkSize: chunkSize,
	}, nil
}

// Write appends one row, opening the next chunk file when the current one
// is full. Values are positional and must match the column list.
func (w *Writer) Write(values []string) error {
	if len(values) != len(w.columns) {
		return fmt.Errorf("row has %d values, want %d", len(values), len(w.columns))
	}
	if w.rows%w.chunkSize == 0 {
		if err := w.closeChunk(); err != nil {
			return err
		}
		if err := w.openChunk(w.rows/w.chunkSize + 1); err != nil {
			return err
		}
	}
	w.rows++
	return w.writeLine(values)
}

// Rows returns the number of rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Files returns the completed chunk file base names, in order.
func (w *Writer) Files() []string {
	return w.files
}

// Close finishes the current chunk. Safe to call with nothing open.
func (w *Writer) Close() error {
	return w.closeChunk()
}

func (w *Writer) openChunk(number int) error {
	name := fmt.Sprintf(w.pattern, number)
	tmp, err := os.CreateTemp(w.outDir, ".csv-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	w.file = tmp
	w.tmpPath = tmp.Name()
	w.dest = filepath.Join(w.outDir, name)
	w.buf = bufio.NewWriter(tmp)

	if _, err := w.buf.WriteString(w.banner + "\n"); err != nil {
		return fmt.Errorf("writing banner: %w", err)
	}
	return w.writeLine(w.columns)
}

func (w *Writer) closeChunk() error {
	if w.file == nil {
		return nil
	}
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if flushErr != nil || closeErr != nil {
		os.Remove(w.tmpPath)
		w.file = nil
		if flushErr != nil {
			return fmt.Errorf("flushing %s: %w", w.dest, flushErr)
		}
		return fmt.Errorf("closing %s: %w", w.dest, closeErr)
	}
	if err := os.Rename(w.tmpPath, w.dest); err != nil {
		os.Remove(w.tmpPath)
		w.file = nil
		return fmt.Errorf("renaming into %s: %w", w.dest, err)
	}
	w.files = append(w.files, filepath.Base(w.dest))
	w.file = nil
	return nil
}

// writeLine emits one fully quoted CSV row with a bare \n terminator.
// encoding/csv only quotes on demand; the importer wants every field
// quoted, so the quoting is done here.
func (w *Writer) writeLine(values []string) error {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	if _, err := w.buf.WriteString(strings.Join(quoted, ",") + "\n"); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	return nil
}
