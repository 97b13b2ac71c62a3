// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/trackconvert/internal/csvout"
	"github.com/pdiddy/trackconvert/internal/locate"
	"github.com/pdiddy/trackconvert/internal/normalize"
	"github.com/pdiddy/trackconvert/internal/parse"
	"github.com/pdiddy/trackconvert/pkg/types"
)

// DefaultActivityChunkSize bounds each output file for the import pipeline.
const DefaultActivityChunkSize = 100

var activityColumns = []string{
	"Date",
	"Calories Burned",
	"Steps",
	"Distance",
	"Floors",
	"Minutes Sedentary",
	"Minutes Lightly Active",
	"Minutes Fairly Active",
	"Minutes Very Active",
	"Activity Calories",
}

// RunActivity merges the floors, calories, and day-summary exports into
// per-day records and writes them as numbered, chunked CSV files. All
// three inputs must exist; the merge is meaningless without them.
func RunActivity(cfg types.ActivityConfig, w io.Writer) (Result, error) {
	var res Result

	floors, err := readFloors(cfg.SourceDir, w, &res)
	if err != nil {
		return res, err
	}
	calories, err := readCalories(cfg.SourceDir, w, &res)
	if err != nil {
		return res, err
	}
	days, err := readDaySummaries(cfg.SourceDir, w, &res)
	if err != nil {
		return res, err
	}

	merged := normalize.MergeDays(floors, calories, days)

	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = DefaultActivityChunkSize
	}
	out, err := csvout.NewWriter(outPath(cfg.SourceDir, cfg.OutDir), "Activities", "activities-export-%d.csv", activityColumns, chunk)
	if err != nil {
		return res, err
	}

	for _, rec := range merged {
		if err := out.Write(activityRow(rec)); err != nil {
			return res, err
		}
		res.Converted++
	}
	if err := out.Close(); err != nil {
		return res, err
	}

	for _, name := range out.Files() {
		fmt.Fprintf(w, "wrote: %s\n", name)
	}
	res.summary(w, "exported")
	return res, nil
}

// readFloors sums floors climbed per date. The export stores one row per
// registered climb.
func readFloors(dir string, w io.Writer, res *Result) (map[string]int, error) {
	path, err := locate.Find(dir, locate.CategoryFloors)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Reading floors from %s\n", filepath.Base(path))

	r, err := parse.Open(path, "start_time", "floor")
	if err != nil {
		return nil, err
	}
	defer r.Close()

	floors := make(map[string]int)
	for {
		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		date, n, err := normalize.FloorEntry(raw)
		if err != nil {
			res.skip(w, recordLabel(raw), err.Error())
			continue
		}
		floors[date] += n
	}
	collectWarnings(r, w, res)
	return floors, nil
}

// readCalories reads the per-day calories-burned totals.
func readCalories(dir string, w io.Writer, res *Result) (map[string]int, error) {
	path, err := locate.Find(dir, locate.CategoryCalories)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Reading calories from %s\n", filepath.Base(path))

	r, err := parse.Open(path, "day_time")
	if err != nil {
		return nil, err
	}
	defer r.Close()

	calories := make(map[string]int)
	for {
		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		date, kcal, err := normalize.CalorieEntry(raw)
		if err != nil {
			res.skip(w, recordLabel(raw), err.Error())
			continue
		}
		calories[date] = kcal
	}
	collectWarnings(r, w, res)
	return calories, nil
}

// readDaySummaries reads the per-day step, distance, and timer figures.
func readDaySummaries(dir string, w io.Writer, res *Result) (map[string]types.ActivityRecord, error) {
	path, err := locate.Find(dir, locate.CategoryDaySummary)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Reading day summaries from %s\n", filepath.Base(path))

	r, err := parse.Open(path, "day_time", "step_count")
	if err != nil {
		return nil, err
	}
	defer r.Close()

	days := make(map[string]types.ActivityRecord)
	for {
		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := normalize.DaySummary(raw)
		if err != nil {
			res.skip(w, recordLabel(raw), err.Error())
			continue
		}
		days[rec.Date] = rec
	}
	collectWarnings(r, w, res)
	return days, nil
}

func collectWarnings(r *parse.Reader, w io.Writer, res *Result) {
	for _, warn := range r.Warnings() {
		res.skip(w, "row", warn)
	}
}

func activityRow(rec types.ActivityRecord) []string {
	return []string{
		rec.Date,
		strconv.Itoa(rec.CaloriesBurned),
		strconv.Itoa(rec.Steps),
		strconv.FormatFloat(rec.DistanceKm, 'f', 2, 64),
		strconv.Itoa(rec.Floors),
		"0", // sedentary minutes: the importer ignores them
		strconv.Itoa(rec.LightlyActiveMin),
		"0", // fairly-active has no source field
		strconv.Itoa(rec.VeryActiveMin),
		strconv.Itoa(rec.ActivityCalories),
	}
}
