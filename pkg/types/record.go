// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model and stage configuration for the
// trackconvert pipeline.
package types

import "time"

// RawRecord is one input row as read from an export file: a mapping from
// source field name to string value. An absent key means the field was not
// present in the row, which is distinct from an empty value.
type RawRecord map[string]string

// Sport is the activity classification accepted by the TCX schema. The
// source vendor's taxonomy of several dozen exercise subtypes collapses to
// these three values; anything unmapped becomes SportOther.
type Sport string

const (
	SportRunning Sport = "Running"
	SportBiking  Sport = "Biking"
	SportOther   Sport = "Other"
)

// TrackPoint is a single timestamped GPS/sensor sample within an exercise.
// Pointer fields distinguish "not recorded" from a recorded zero.
type TrackPoint struct {
	// Time is the sample timestamp in UTC.
	Time time.Time

	// Latitude and Longitude are WGS84 degrees. A position exists only
	// when both are set.
	Latitude  *float64
	Longitude *float64

	// Altitude is meters above sea level.
	Altitude *float64

	// Distance is cumulative meters since the exercise start.
	Distance *float64

	// HeartRate is beats per minute.
	HeartRate *int

	// Cadence is steps or revolutions per minute.
	Cadence *int

	// Speed is meters per second.
	Speed *float64
}

// HasData reports whether the point carries anything beyond its timestamp.
// A bare timestamp is not worth a trackpoint in the output.
func (p TrackPoint) HasData() bool {
	return p.HasPosition() || p.HeartRate != nil || p.Cadence != nil
}

// HasPosition reports whether both latitude and longitude are recorded.
func (p TrackPoint) HasPosition() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// ExerciseRecord is one recorded exercise in canonical units: meters,
// seconds, kilocalories, beats per minute. StartTime and Duration are always
// set; everything else is optional.
type ExerciseRecord struct {
	// ID is the vendor's session identifier, used to correlate the summary
	// row with its GPS and sensor trace files.
	ID string

	// StartTime is the exercise start in UTC.
	StartTime time.Time

	// Duration is the total exercise time in seconds.
	Duration float64

	// Distance is total meters covered.
	Distance *float64

	// Calories is total kilocalories burned.
	Calories *float64

	// AvgHeartRate and MaxHeartRate are beats per minute.
	AvgHeartRate *int
	MaxHeartRate *int

	// AvgSpeed and MaxSpeed are meters per second.
	AvgSpeed *float64
	MaxSpeed *float64

	// AvgCadence and MaxCadence are per-minute counts.
	AvgCadence *int
	MaxCadence *int

	// Sport is the collapsed activity classification.
	Sport Sport

	// Track is the ordered GPS/sensor trace. Empty when the exercise was
	// recorded without one.
	Track []TrackPoint
}

// WeightRecord is one body measurement in metric units.
type WeightRecord struct {
	// Date is the measurement date in YYYY-MM-DD form.
	Date string

	// Weight is kilograms.
	Weight float64

	// Height is centimeters.
	Height float64

	// BMI is derived from weight and height, rounded to two decimals.
	BMI float64

	// FatPercent is body fat as a percentage of weight, when recorded.
	FatPercent *float64
}

// ActivityRecord is one day's aggregated activity in metric units.
type ActivityRecord struct {
	// Date is the day in YYYY-MM-DD form.
	Date string

	// CaloriesBurned is resting plus active kilocalories for the day.
	CaloriesBurned int

	// Steps is the day's step count.
	Steps int

	// DistanceKm is kilometers covered, rounded to two decimals.
	DistanceKm float64

	// Floors is floors climbed, summed over the day's entries.
	Floors int

	// LightlyActiveMin and VeryActiveMin are minutes spent walking and
	// running respectively.
	LightlyActiveMin int
	VeryActiveMin    int

	// ActivityCalories is kilocalories attributed to deliberate activity.
	ActivityCalories int
}
