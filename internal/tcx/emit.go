// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tcx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/trackconvert/pkg/types"
)

// Emitter writes one TCX file per exercise into a fixed output directory.
// It tracks the names it has handed out so that two exercises sharing a
// start time (manual entries, mostly) land in distinct files.
type Emitter struct {
	outDir string
	used   map[string]int
}

// NewEmitter creates outDir if needed and returns an Emitter over it.
func NewEmitter(outDir string) (*Emitter, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	return &Emitter{outDir: outDir, used: make(map[string]int)}, nil
}

// Write serializes rec and writes it under the emitter's directory,
// returning the file's base name. The document goes to a temporary file
// first and is renamed into place, so no half-written TCX file survives a
// failure. Name collisions within the run get a numeric suffix.
func (e *Emitter) Write(rec types.ExerciseRecord) (string, error) {
	doc, err := Marshal(rec)
	if err != nil {
		return "", err
	}

	name := e.claim(Filename(rec.StartTime))
	destPath := filepath.Join(e.outDir, name)

	tmp, err := os.CreateTemp(e.outDir, ".tcx-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(doc)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", name, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming into %s: %w", destPath, err)
	}
	return name, nil
}

// claim reserves a filename, appending -1, -2, ... on repeat use. The
// counter is per-run, which keeps reruns over the same input byte-for-byte
// reproducible.
func (e *Emitter) claim(name string) string {
	n := e.used[name]
	e.used[name]++
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}
