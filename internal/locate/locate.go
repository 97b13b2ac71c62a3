// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate finds vendor export files in a source directory. Each
// conversion category has a known filename pattern; when none matches, a
// content probe over the CSV headers catches files the user renamed.
package locate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound indicates that no export file for the requested category
// exists in the source directory. This is user-correctable, not retryable.
var ErrNotFound = errors.New("no matching export file found")

// Category identifies one logical export the vendor app produces.
type Category string

const (
	CategoryExercise   Category = "exercise"
	CategoryWeight     Category = "weight"
	CategoryFloors     Category = "floors"
	CategoryCalories   Category = "calories"
	CategoryDaySummary Category = "day_summary"
)

// pattern holds the filename glob and the header columns that identify a
// category's export when the filename no longer matches.
type pattern struct {
	glob      string
	signature []string
}

var patterns = map[Category]pattern{
	CategoryExercise: {
		glob:      "com.samsung.shealth.exercise.2*.csv",
		signature: []string{"com.samsung.health.exercise.start_time", "com.samsung.health.exercise.exercise_type"},
	},
	CategoryWeight: {
		glob:      "com.samsung.health.weight.*.csv",
		signature: []string{"weight", "height", "start_time"},
	},
	CategoryFloors: {
		glob:      "com.samsung.health.floors_climbed.*.csv",
		signature: []string{"floor", "start_time"},
	},
	CategoryCalories: {
		glob:      "com.samsung.shealth.calories_burned.details.*.csv",
		signature: []string{"com.samsung.shealth.calories_burned.day_time", "com.samsung.shealth.calories_burned.rest_calorie"},
	},
	CategoryDaySummary: {
		glob:      "com.samsung.shealth.activity.day_summary.*.csv",
		signature: []string{"day_time", "step_count", "run_time", "walk_time"},
	},
}

// Find returns the export file for cat within dir. Candidates are sorted so
// repeated runs pick the same file. When the filename glob matches nothing,
// every CSV in the directory is probed for the category's header signature.
func Find(dir string, cat Category) (string, error) {
	p, ok := patterns[cat]
	if !ok {
		return "", fmt.Errorf("unknown category %q", cat)
	}

	matches, err := filepath.Glob(filepath.Join(dir, p.glob))
	if err != nil {
		return "", fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches[0], nil
	}

	probed, err := probeHeaders(dir, p.signature)
	if err != nil {
		return "", err
	}
	if probed != "" {
		return probed, nil
	}

	return "", fmt.Errorf("%w for category %s in %s", ErrNotFound, cat, dir)
}

// probeHeaders scans dir for a CSV whose header row contains every column in
// signature. The vendor banner on the first line is skipped. Unreadable
// files are ignored; this is a fallback, not a validator.
func probeHeaders(dir string, signature []string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		header, err := readHeader(path)
		if err != nil {
			continue
		}
		if containsAll(header, signature) {
			return path, nil
		}
	}
	return "", nil
}

// readHeader returns the second line of a vendor CSV (the column row) split
// into fields. The first line is the vendor banner.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err != nil {
		return nil, err
	}
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimPrefix(strings.TrimSpace(header[i]), "\uFEFF")
	}
	return header, nil
}

func containsAll(header, wanted []string) bool {
	set := make(map[string]bool, len(header))
	for _, h := range header {
		set[h] = true
	}
	for _, w := range wanted {
		if !set[w] {
			return false
		}
	}
	return true
}

// TraceKind names the per-exercise JSON sidecar files the vendor writes.
type TraceKind string

const (
	TraceLive     TraceKind = "live_data"
	TraceLocation TraceKind = "location_data"
)

// TracePath computes the location of an exercise's JSON trace file. The
// vendor shards them by the first character of the session identifier.
func TracePath(dir, sessionID string, kind TraceKind) string {
	if sessionID == "" {
		return ""
	}
	return filepath.Join(
		dir,
		"jsons",
		"com.samsung.shealth.exercise",
		sessionID[:1],
		fmt.Sprintf("%s.com.samsung.health.exercise.%s.json", sessionID, kind),
	)
}
