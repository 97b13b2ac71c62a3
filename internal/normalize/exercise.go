// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/trackconvert/pkg/types"
)

// ErrEmptyRecord marks a row that carries no data at all.
var ErrEmptyRecord = errors.New("empty record")

// vendor timestamp layouts, tried in order. Exports store local wall time
// with no zone marker; the vendor's own importer reads them as UTC, so we do
// the same.
var timeLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// ParseTime parses a vendor timestamp field. Epoch milliseconds are
// accepted as a fallback; some schema variants store times that way.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// Exercise converts one raw exercise summary row into an ExerciseRecord.
// Times become UTC, the duration becomes seconds, and optional fields stay
// nil when the export did not record them. An unparsable start time or a
// wholly empty row is an error; the caller skips the record and continues.
func Exercise(raw types.RawRecord) (types.ExerciseRecord, error) {
	if len(raw) == 0 {
		return types.ExerciseRecord{}, ErrEmptyRecord
	}

	start, ok := raw["start_time"]
	if !ok {
		return types.ExerciseRecord{}, errors.New("missing start_time")
	}
	startTime, err := ParseTime(start)
	if err != nil {
		return types.ExerciseRecord{}, err
	}

	rec := types.ExerciseRecord{
		ID:        raw["datauuid"],
		StartTime: startTime,
		Sport:     SportFor(raw["exercise_type"]),
	}

	// Durations are stored in milliseconds. A summary row without one is
	// useless downstream, so it is skipped rather than emitted with a zero.
	ms, ok := floatField(raw, "duration")
	if !ok {
		return types.ExerciseRecord{}, errors.New("missing duration")
	}
	rec.Duration = ms / 1000

	rec.Distance = optFloat(raw, "distance")
	rec.Calories = optFloat(raw, "total_calorie")
	rec.AvgSpeed = optNonzeroFloat(raw, "mean_speed")
	rec.MaxSpeed = optFloat(raw, "max_speed")
	rec.AvgCadence = optNonzeroInt(raw, "mean_cadence")
	rec.MaxCadence = optNonzeroInt(raw, "max_cadence")

	// The vendor writes a 0.0 mean heart rate when no monitor was worn; a
	// genuine average of zero is not possible, so zero means absent here.
	rec.AvgHeartRate = optNonzeroInt(raw, "mean_heart_rate")
	if rec.AvgHeartRate != nil {
		rec.MaxHeartRate = optNonzeroInt(raw, "max_heart_rate")
	}

	return rec, nil
}

// floatField parses a numeric field, reporting whether it was present.
func floatField(raw types.RawRecord, name string) (float64, bool) {
	s, ok := raw[name]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// optFloat returns a pointer to the parsed field value, or nil when absent.
// A recorded zero stays a recorded zero.
func optFloat(raw types.RawRecord, name string) *float64 {
	if v, ok := floatField(raw, name); ok {
		return &v
	}
	return nil
}

// optNonzeroFloat is optFloat for fields where the vendor uses 0.0 to mean
// "not recorded".
func optNonzeroFloat(raw types.RawRecord, name string) *float64 {
	if v, ok := floatField(raw, name); ok && v != 0 {
		return &v
	}
	return nil
}

// optNonzeroInt is optNonzeroFloat rounded to an integer, for heart rate
// and cadence fields.
func optNonzeroInt(raw types.RawRecord, name string) *int {
	if v, ok := floatField(raw, name); ok && v != 0 {
		n := int(math.Round(v))
		return &n
	}
	return nil
}
