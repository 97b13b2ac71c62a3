// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"encoding/json"
	"fmt"
	"os"
)

// LocationSample is one GPS fix from an exercise's location trace file.
// Timestamps are epoch milliseconds, as the vendor stores them.
type LocationSample struct {
	StartTime int64    `json:"start_time"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// LiveSample is one sensor reading from an exercise's live-data trace file.
// Which fields a reading carries varies by device; absent fields stay nil.
type LiveSample struct {
	StartTime int64    `json:"start_time"`
	HeartRate *float64 `json:"heart_rate,omitempty"`
	Cadence   *float64 `json:"cadence,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Distance  *float64 `json:"distance,omitempty"`
}

// ReadLocationData decodes an exercise's GPS trace. A missing file means the
// exercise has no trace and is not an error.
func ReadLocationData(path string) ([]LocationSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading location data %s: %w", path, err)
	}

	var samples []LocationSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parsing location data %s: %w", path, err)
	}
	return samples, nil
}

// ReadLiveData decodes an exercise's sensor trace. A missing file is not an
// error.
func ReadLiveData(path string) ([]LiveSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading live data %s: %w", path, err)
	}

	var samples []LiveSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parsing live data %s: %w", path, err)
	}
	return samples, nil
}
