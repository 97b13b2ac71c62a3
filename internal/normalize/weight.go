// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"fmt"

	"github.com/pdiddy/trackconvert/pkg/types"
)

// Weight converts one raw weight row into a metric WeightRecord. Exports
// from devices set to imperial units carry weight_unit/height_unit columns;
// those values are converted, everything else is already metric. BMI is
// derived here because the import pipeline wants it as a column of its own.
func Weight(raw types.RawRecord) (types.WeightRecord, error) {
	if len(raw) == 0 {
		return types.WeightRecord{}, ErrEmptyRecord
	}

	start, ok := raw["start_time"]
	if !ok {
		return types.WeightRecord{}, errors.New("missing start_time")
	}
	if len(start) < 10 {
		return types.WeightRecord{}, fmt.Errorf("unparsable timestamp %q", start)
	}
	if _, err := ParseTime(start); err != nil {
		return types.WeightRecord{}, err
	}

	weight, ok := floatField(raw, "weight")
	if !ok {
		return types.WeightRecord{}, errors.New("missing weight")
	}
	if raw["weight_unit"] == "lb" {
		weight = PoundsToKilograms(weight)
	}

	height, ok := floatField(raw, "height")
	if !ok || height == 0 {
		return types.WeightRecord{}, errors.New("missing height")
	}
	switch raw["height_unit"] {
	case "in":
		height = FeetInchesToCentimeters(0, height)
	case "ft":
		height = FeetInchesToCentimeters(height, 0)
	}

	rec := types.WeightRecord{
		Date:   start[:10],
		Weight: weight,
		Height: height,
		BMI:    round2(weight / ((height / 100) * (height / 100))),
	}

	// Body fat mass converts to a percentage of total weight. The import
	// pipeline accepts the column even though it does not display it.
	if fatMass, ok := floatField(raw, "body_fat_mass"); ok {
		pct := round1(fatMass / weight * 100)
		rec.FatPercent = &pct
	}

	return rec, nil
}
