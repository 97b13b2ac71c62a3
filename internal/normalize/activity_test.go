// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/pdiddy/trackconvert/pkg/types"
)

func TestFloorEntry(t *testing.T) {
	date, floors, err := FloorEntry(types.RawRecord{
		"start_time": "2023-12-01 13:45:00.000",
		"floor":      "3.0",
	})
	if err != nil {
		t.Fatalf("FloorEntry: %v", err)
	}
	if date != "2023-12-01" || floors != 3 {
		t.Errorf("FloorEntry = (%q, %d), want (2023-12-01, 3)", date, floors)
	}

	if _, _, err := FloorEntry(types.RawRecord{"floor": "2"}); err == nil {
		t.Error("expected an error without start_time")
	}
}

func TestCalorieEntry(t *testing.T) {
	// 1701388800000 is 2023-12-01 00:00 UTC.
	date, kcal, err := CalorieEntry(types.RawRecord{
		"day_time":       "1701388800000",
		"rest_calorie":   "1500.4",
		"active_calorie": "420.3",
	})
	if err != nil {
		t.Fatalf("CalorieEntry: %v", err)
	}
	if date != "2023-12-01" {
		t.Errorf("date = %q, want 2023-12-01", date)
	}
	if kcal != 1921 {
		t.Errorf("calories = %d, want 1921", kcal)
	}
}

func TestDaySummary(t *testing.T) {
	rec, err := DaySummary(types.RawRecord{
		"day_time":   "1701388800000",
		"step_count": "8432",
		"distance":   "6120.5",
		"calorie":    "312.7",
		"run_time":   "600000",
		"walk_time":  "3600000",
	})
	if err != nil {
		t.Fatalf("DaySummary: %v", err)
	}

	if rec.Date != "2023-12-01" {
		t.Errorf("Date = %q", rec.Date)
	}
	if rec.Steps != 8432 {
		t.Errorf("Steps = %d, want 8432", rec.Steps)
	}
	if rec.DistanceKm != 6.12 {
		t.Errorf("DistanceKm = %v, want 6.12", rec.DistanceKm)
	}
	if rec.VeryActiveMin != 10 {
		t.Errorf("VeryActiveMin = %d, want 10", rec.VeryActiveMin)
	}
	if rec.LightlyActiveMin != 60 {
		t.Errorf("LightlyActiveMin = %d, want 60", rec.LightlyActiveMin)
	}
	if rec.ActivityCalories != 312 {
		t.Errorf("ActivityCalories = %d, want 312", rec.ActivityCalories)
	}
}

func TestMergeDays(t *testing.T) {
	floors := map[string]int{"2023-12-01": 5}
	calories := map[string]int{
		"2023-12-01": 1900,
		"2023-12-02": 1850,
		"2023-12-03": 1800,
	}
	days := map[string]types.ActivityRecord{
		"2023-12-01": {Date: "2023-12-01", Steps: 8000, DistanceKm: 6.1},
		"2023-12-02": {Date: "2023-12-02", Steps: 0}, // dropped entirely
	}

	merged := MergeDays(floors, calories, days)

	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	// Sorted by date, zero-step day gone.
	if merged[0].Date != "2023-12-01" || merged[1].Date != "2023-12-03" {
		t.Errorf("dates = %q, %q", merged[0].Date, merged[1].Date)
	}
	if merged[0].Steps != 8000 || merged[0].Floors != 5 || merged[0].CaloriesBurned != 1900 {
		t.Errorf("merged[0] = %+v", merged[0])
	}
	// A calories-only day survives: no day summary means no step evidence
	// either way.
	if merged[1].CaloriesBurned != 1800 || merged[1].Steps != 0 {
		t.Errorf("merged[1] = %+v", merged[1])
	}
}
