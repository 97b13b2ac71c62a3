// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw export records into the canonical data
// model: metric units, UTC timestamps, the collapsed sport taxonomy, and
// GPS/sensor traces correlated to their summary records.
package normalize

import "math"

const (
	kilogramsPerPound  = 0.45359237
	metersPerMile      = 1609.344
	centimetersPerFoot = 30.48
	centimetersPerInch = 2.54
)

// PoundsToKilograms converts an imperial weight to kilograms.
func PoundsToKilograms(lb float64) float64 {
	return lb * kilogramsPerPound
}

// MilesToMeters converts an imperial distance to meters.
func MilesToMeters(mi float64) float64 {
	return mi * metersPerMile
}

// FeetInchesToCentimeters converts an imperial height to centimeters.
func FeetInchesToCentimeters(feet, inches float64) float64 {
	return feet*centimetersPerFoot + inches*centimetersPerInch
}

// MetersToKilometers converts meters to kilometers rounded to two decimals,
// the precision the import pipeline expects for daily distance.
func MetersToKilometers(m float64) float64 {
	return math.Round(m/1000*100) / 100
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round0 rounds to the nearest integer.
func round0(v float64) float64 {
	return math.Round(v)
}
