// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the conversion stages together: locate the export
// file, parse it, normalize each record, emit the output. One runner per
// conversion category; a failed record is logged and counted, never fatal,
// while a missing or unreadable input file aborts the category's run.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Result summarizes one conversion run. Skipped records are reported but do
// not fail the run; the caller decides nothing from them beyond printing.
type Result struct {
	Converted   int      `yaml:"converted"`
	Skipped     int      `yaml:"skipped"`
	SkipReasons []string `yaml:"skip_reasons,omitempty"`
}

// Total returns the number of records processed.
func (r Result) Total() int {
	return r.Converted + r.Skipped
}

// HasFailures reports whether any records were skipped. Skips never fail a
// run; this exists for callers that want to surface them separately.
func (r Result) HasFailures() bool {
	return r.Skipped > 0
}

// skip records one skipped record with its reason.
func (r *Result) skip(w io.Writer, what, reason string) {
	r.Skipped++
	r.SkipReasons = append(r.SkipReasons, fmt.Sprintf("%s: %s", what, reason))
	fmt.Fprintf(w, "skipped: %s (%s)\n", what, reason)
}

// summary prints the end-of-run counts in one line.
func (r Result) summary(w io.Writer, verb string) {
	fmt.Fprintf(w, "\nBatch summary: %d %s, %d skipped (total: %d)\n",
		r.Converted, verb, r.Skipped, r.Total())
}

// WriteReport saves the run summary as YAML. The report carries no
// timestamp: rerunning over the same input must reproduce it byte for byte.
func (r Result) WriteReport(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
