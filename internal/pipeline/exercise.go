// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/trackconvert/internal/locate"
	"github.com/pdiddy/trackconvert/internal/normalize"
	"github.com/pdiddy/trackconvert/internal/parse"
	"github.com/pdiddy/trackconvert/internal/tcx"
	"github.com/pdiddy/trackconvert/pkg/types"
)

// RunExercise converts every exercise in the export to one TCX file each.
// Per-record failures (bad timestamps, unserializable documents) are logged
// to w and counted; only a missing or structurally unreadable input aborts
// the run.
func RunExercise(cfg types.ExerciseConfig, w io.Writer) (Result, error) {
	var res Result

	path, err := locate.Find(cfg.SourceDir, locate.CategoryExercise)
	if err != nil {
		return res, err
	}
	fmt.Fprintf(w, "Reading exercises from %s\n", filepath.Base(path))

	r, err := parse.Open(path, "start_time", "exercise_type", "duration")
	if err != nil {
		return res, err
	}
	defer r.Close()

	em, err := tcx.NewEmitter(outPath(cfg.SourceDir, cfg.OutDir))
	if err != nil {
		return res, err
	}

	traces := newTraceIndex(cfg.SourceDir)

	for {
		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}

		rec, err := normalize.Exercise(raw)
		if err != nil {
			res.skip(w, recordLabel(raw), err.Error())
			continue
		}

		if raw["location_data"] != "" || raw["live_data"] != "" {
			rec.Track = loadTrack(traces, rec, cfg, w)
		}

		name, err := em.Write(rec)
		if err != nil {
			res.skip(w, recordLabel(raw), err.Error())
			continue
		}
		res.Converted++
		fmt.Fprintf(w, "converted: %s\n", name)
	}

	for _, warn := range r.Warnings() {
		res.skip(w, "row", warn)
	}

	res.summary(w, "converted")

	if cfg.ReportPath != "" {
		if err := res.WriteReport(cfg.ReportPath); err != nil {
			fmt.Fprintf(w, "warning: could not write report: %v\n", err)
		}
	}
	return res, nil
}

// loadTrack reads and merges an exercise's trace files. Trace problems
// degrade to a trackless TCX file rather than losing the exercise.
func loadTrack(traces *traceIndex, rec types.ExerciseRecord, cfg types.ExerciseConfig, w io.Writer) []types.TrackPoint {
	locPath, livePath := traces.tracePaths(rec.ID, rec.StartTime)
	if locPath == "" && livePath == "" {
		return nil
	}

	location, err := parse.ReadLocationData(locPath)
	if err != nil {
		fmt.Fprintf(w, "warning: %s: %v\n", recordLabelFor(rec), err)
	}
	live, err := parse.ReadLiveData(livePath)
	if err != nil {
		fmt.Fprintf(w, "warning: %s: %v\n", recordLabelFor(rec), err)
	}
	return normalize.MergeTrace(location, live, cfg.TraceTolerance)
}

// recordLabel names a raw record in log lines, preferring the session
// identifier when the row has one.
func recordLabel(raw types.RawRecord) string {
	if id := raw["datauuid"]; id != "" {
		return id
	}
	if ts := raw["start_time"]; ts != "" {
		return ts
	}
	return "record"
}

func recordLabelFor(rec types.ExerciseRecord) string {
	if rec.ID != "" {
		return rec.ID
	}
	return rec.StartTime.Format("2006-01-02 15:04:05")
}

// outPath anchors a relative output directory under the source directory.
func outPath(sourceDir, outDir string) string {
	if filepath.IsAbs(outDir) {
		return outDir
	}
	return filepath.Join(sourceDir, outDir)
}
