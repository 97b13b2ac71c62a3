// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/trackconvert/internal/locate"
	"github.com/pdiddy/trackconvert/internal/parse"
)

// traceIndex finds an exercise's GPS trace when its summary row carries no
// session identifier (some manual and migrated entries). Trace files are
// indexed by the calendar second of their first GPS fix; a summary matches
// when its start time lands in the same second. The index is built lazily,
// on the first identifier-less record, since most exports never need it.
type traceIndex struct {
	dir      string
	built    bool
	bySecond map[int64]string
}

func newTraceIndex(dir string) *traceIndex {
	return &traceIndex{dir: dir}
}

// Lookup returns the location and live-data paths for a start time, or
// empty strings when no trace file begins in that same second.
func (ix *traceIndex) Lookup(start time.Time) (locPath, livePath string) {
	if !ix.built {
		ix.build()
	}
	locPath, ok := ix.bySecond[start.Unix()]
	if !ok {
		return "", ""
	}
	return locPath, strings.Replace(locPath, ".location_data.json", ".live_data.json", 1)
}

// build scans the trace directory once. Unreadable or empty trace files are
// simply not indexed.
func (ix *traceIndex) build() {
	ix.built = true
	ix.bySecond = make(map[int64]string)

	root := filepath.Join(ix.dir, "jsons", "com.samsung.shealth.exercise")
	shards, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(root, shard.Name()))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !strings.HasSuffix(e.Name(), ".location_data.json") {
				continue
			}
			path := filepath.Join(root, shard.Name(), e.Name())
			samples, err := parse.ReadLocationData(path)
			if err != nil || len(samples) == 0 {
				continue
			}
			sec := samples[0].StartTime / 1000
			if _, taken := ix.bySecond[sec]; !taken {
				ix.bySecond[sec] = path
			}
		}
	}
}

// tracePaths resolves where an exercise's trace files live: by session
// identifier when the summary has one, by start-time proximity otherwise.
func (ix *traceIndex) tracePaths(sessionID string, start time.Time) (locPath, livePath string) {
	if sessionID != "" {
		return locate.TracePath(ix.dir, sessionID, locate.TraceLocation),
			locate.TracePath(ix.dir, sessionID, locate.TraceLive)
	}
	return ix.Lookup(start)
}
