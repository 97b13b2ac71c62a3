// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tcx

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trackconvert/pkg/types"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func baseRecord() types.ExerciseRecord {
	return types.ExerciseRecord{
		ID:        "uuid-1",
		StartTime: time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC),
		Duration:  1800,
		Sport:     types.SportRunning,
	}
}

// parsedDoc is a minimal reader-side model used to check well-formedness.
type parsedDoc struct {
	Activities struct {
		Activity struct {
			Sport string `xml:"Sport,attr"`
			ID    string `xml:"Id"`
			Lap   struct {
				StartTime        string  `xml:"StartTime,attr"`
				TotalTimeSeconds float64 `xml:"TotalTimeSeconds"`
				Track            struct {
					Trackpoints []struct {
						Time string `xml:"Time"`
					} `xml:"Trackpoint"`
				} `xml:"Track"`
			} `xml:"Lap"`
		} `xml:"Activity"`
	} `xml:"Activities"`
}

func TestMarshal_MinimalRecord(t *testing.T) {
	doc, err := Marshal(baseRecord())
	require.NoError(t, err)

	s := string(doc)
	assert.True(t, strings.HasPrefix(s, xml.Header), "document must start with the XML declaration")
	assert.Contains(t, s, `Sport="Running"`)
	assert.Contains(t, s, "<Id>2023-12-01T10:00:00Z</Id>")
	assert.Contains(t, s, "<TotalTimeSeconds>1800</TotalTimeSeconds>")
	assert.Contains(t, s, "<Intensity>Active</Intensity>")
	assert.Contains(t, s, "<TriggerMethod>Manual</TriggerMethod>")

	// No optional fields: no heart rate, track, or extension elements.
	assert.NotContains(t, s, "HeartRateBpm")
	assert.NotContains(t, s, "<Track>")
	assert.NotContains(t, s, "Extensions")
	assert.NotContains(t, s, "DistanceMeters")

	var parsed parsedDoc
	require.NoError(t, xml.Unmarshal(doc, &parsed), "output must be well-formed XML")
	assert.Equal(t, 1800.0, parsed.Activities.Activity.Lap.TotalTimeSeconds)
}

func TestMarshal_LapSummary(t *testing.T) {
	rec := baseRecord()
	rec.Distance = fp(5000)
	rec.Calories = fp(420.5)
	rec.AvgHeartRate = ip(141)
	rec.MaxHeartRate = ip(167)
	rec.MaxSpeed = fp(3.4)

	doc, err := Marshal(rec)
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, "<DistanceMeters>5000</DistanceMeters>")
	assert.Contains(t, s, "<Calories>421</Calories>")
	assert.Contains(t, s, "<AverageHeartRateBpm>")
	assert.Contains(t, s, "<Value>141</Value>")
	assert.Contains(t, s, "<MaximumHeartRateBpm>")
	assert.Contains(t, s, "<MaximumSpeed>3.4</MaximumSpeed>")
}

func TestMarshal_LapExtensions(t *testing.T) {
	rec := baseRecord()
	rec.AvgSpeed = fp(2.77)
	rec.AvgCadence = ip(80)
	rec.MaxCadence = ip(92)

	doc, err := Marshal(rec)
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, "<ns3:LX>")
	assert.Contains(t, s, "<ns3:AvgSpeed>2.77</ns3:AvgSpeed>")
	assert.Contains(t, s, "<ns3:AvgRunCadence>80</ns3:AvgRunCadence>")
	assert.Contains(t, s, "<ns3:MaxRunCadence>92</ns3:MaxRunCadence>")
}

func TestMarshal_TrackpointsSorted(t *testing.T) {
	rec := baseRecord()
	base := rec.StartTime
	// Supplied deliberately out of order.
	rec.Track = []types.TrackPoint{
		trackpointAt(base.Add(20*time.Second), 52.2, 13.2),
		trackpointAt(base, 52.0, 13.0),
		trackpointAt(base.Add(10*time.Second), 52.1, 13.1),
	}

	doc, err := Marshal(rec)
	require.NoError(t, err)

	var parsed parsedDoc
	require.NoError(t, xml.Unmarshal(doc, &parsed))

	tps := parsed.Activities.Activity.Lap.Track.Trackpoints
	require.Len(t, tps, 3)
	for i := 1; i < len(tps); i++ {
		assert.Less(t, tps[i-1].Time, tps[i].Time, "trackpoints must ascend by timestamp")
	}
}

func TestMarshal_BareTimestampPointsDropped(t *testing.T) {
	rec := baseRecord()
	rec.Track = []types.TrackPoint{
		{Time: rec.StartTime}, // nothing but a timestamp
	}

	doc, err := Marshal(rec)
	require.NoError(t, err)

	// The only point was empty, so the whole track is omitted.
	assert.NotContains(t, string(doc), "<Track>")
}

func TestMarshal_PositionRequiresBothCoordinates(t *testing.T) {
	lat := 52.0
	rec := baseRecord()
	rec.Track = []types.TrackPoint{
		{Time: rec.StartTime, Latitude: &lat, HeartRate: ip(120)},
	}

	doc, err := Marshal(rec)
	require.NoError(t, err)

	s := string(doc)
	assert.NotContains(t, s, "<Position>")
	assert.Contains(t, s, "<HeartRateBpm>")
}

func TestMarshal_TrackpointAltitudeAndDistance(t *testing.T) {
	rec := baseRecord()
	p := trackpointAt(rec.StartTime, 52.0, 13.0)
	p.Altitude = fp(34.5)
	p.Distance = fp(120)
	p.Speed = fp(2.9)
	rec.Track = []types.TrackPoint{p}

	doc, err := Marshal(rec)
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, "<LatitudeDegrees>52</LatitudeDegrees>")
	assert.Contains(t, s, "<AltitudeMeters>34.5</AltitudeMeters>")
	assert.Contains(t, s, "<DistanceMeters>120</DistanceMeters>")
	// Per-point speed fights the importer's own GPS-derived value.
	assert.NotContains(t, s, "<Speed>")
}

func TestMarshal_Deterministic(t *testing.T) {
	rec := baseRecord()
	rec.Track = []types.TrackPoint{trackpointAt(rec.StartTime, 52.0, 13.0)}

	a, err := Marshal(rec)
	require.NoError(t, err)
	b, err := Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, a, b, "marshaling must be byte-for-byte reproducible")
}

func TestFilename(t *testing.T) {
	start := time.Date(2023, 12, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "20231201-100000.tcx", Filename(start))
}

func trackpointAt(ts time.Time, lat, lon float64) types.TrackPoint {
	return types.TrackPoint{Time: ts, Latitude: &lat, Longitude: &lon}
}
