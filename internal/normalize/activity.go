// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pdiddy/trackconvert/pkg/types"
)

const dateLayout = "2006-01-02"

// msToDate renders an epoch-millisecond day marker as a UTC calendar date.
func msToDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(dateLayout)
}

// FloorEntry extracts the date and floor count from one floors-climbed row.
// The vendor writes an entry per climb, so one day yields many rows; the
// caller sums them per date.
func FloorEntry(raw types.RawRecord) (date string, floors int, err error) {
	start, ok := raw["start_time"]
	if !ok || len(start) < 10 {
		return "", 0, errors.New("missing start_time")
	}
	if _, err := ParseTime(start); err != nil {
		return "", 0, err
	}
	f, ok := floatField(raw, "floor")
	if !ok {
		return "", 0, errors.New("missing floor count")
	}
	return start[:10], int(f), nil
}

// CalorieEntry extracts the date and total kilocalories (resting plus
// active) from one calories-burned row. The day is stored as epoch millis.
func CalorieEntry(raw types.RawRecord) (date string, calories int, err error) {
	dayMillis, ok := raw["day_time"]
	if !ok {
		return "", 0, errors.New("missing day_time")
	}
	ms, err := strconv.ParseInt(dayMillis, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("unparsable day_time %q", dayMillis)
	}
	rest, _ := floatField(raw, "rest_calorie")
	active, _ := floatField(raw, "active_calorie")

	return msToDate(ms), int(round0(rest + active)), nil
}

// DaySummary converts one day-summary row: steps, distance to kilometers,
// active minutes from the millisecond run/walk timers.
func DaySummary(raw types.RawRecord) (types.ActivityRecord, error) {
	dayMillis, ok := raw["day_time"]
	if !ok {
		return types.ActivityRecord{}, errors.New("missing day_time")
	}
	ms, err := strconv.ParseInt(dayMillis, 10, 64)
	if err != nil {
		return types.ActivityRecord{}, fmt.Errorf("unparsable day_time %q", dayMillis)
	}

	steps, _ := floatField(raw, "step_count")
	distance, _ := floatField(raw, "distance")
	calorie, _ := floatField(raw, "calorie")
	runMillis, _ := floatField(raw, "run_time")
	walkMillis, _ := floatField(raw, "walk_time")

	return types.ActivityRecord{
		Date:             msToDate(ms),
		Steps:            int(steps),
		DistanceKm:       MetersToKilometers(distance),
		LightlyActiveMin: int(walkMillis / 60000),
		VeryActiveMin:    int(runMillis / 60000),
		ActivityCalories: int(calorie),
	}, nil
}

// MergeDays joins the three per-day sources into one sorted record list.
// A day whose summary shows zero steps is dropped entirely: without steps
// there is no distance and no intensity minutes worth importing.
func MergeDays(floors, calories map[string]int, days map[string]types.ActivityRecord) []types.ActivityRecord {
	merged := make(map[string]types.ActivityRecord)

	for date, kcal := range calories {
		merged[date] = types.ActivityRecord{Date: date, CaloriesBurned: kcal}
	}
	for date, f := range floors {
		rec := merged[date]
		rec.Date = date
		rec.Floors = f
		merged[date] = rec
	}
	for date, day := range days {
		if day.Steps == 0 {
			delete(merged, date)
			continue
		}
		rec, ok := merged[date]
		if !ok {
			merged[date] = day
			continue
		}
		day.CaloriesBurned = rec.CaloriesBurned
		day.Floors = rec.Floors
		merged[date] = day
	}

	out := make([]types.ActivityRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
