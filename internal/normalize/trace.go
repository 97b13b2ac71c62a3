// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"math"
	"sort"
	"time"

	"github.com/pdiddy/trackconvert/internal/parse"
	"github.com/pdiddy/trackconvert/pkg/types"
)

// DefaultTraceTolerance is how far a sensor reading may be shifted to land
// on an existing GPS sample. The vendor does not document the skew between
// the two trace streams; one second covers everything seen in real exports.
const DefaultTraceTolerance = time.Second

// MergeTrace joins an exercise's GPS trace with its sensor trace into one
// ordered trackpoint sequence.
//
// GPS fixes seed the sequence. Sensor readings whose timestamp has no GPS
// fix are shifted to the nearest fix within tolerance, so heart rate lands
// on points that also carry a position; the import pipeline renders a
// position-less heart-rate point badly. Readings outside tolerance keep
// their own timestamp. Heart rate is carried forward over later points that
// lack their own reading, again for the importer's benefit: a gap reads as
// a heart rate of zero on the far side.
func MergeTrace(location []parse.LocationSample, live []parse.LiveSample, tolerance time.Duration) []types.TrackPoint {
	if tolerance <= 0 {
		tolerance = DefaultTraceTolerance
	}

	points := make(map[int64]*types.TrackPoint, len(location))
	gpsTimes := make([]int64, 0, len(location))

	for _, loc := range location {
		if _, ok := points[loc.StartTime]; ok {
			continue
		}
		lat, lon := loc.Latitude, loc.Longitude
		p := &types.TrackPoint{
			Time:      time.UnixMilli(loc.StartTime).UTC(),
			Latitude:  &lat,
			Longitude: &lon,
			Altitude:  loc.Altitude,
		}
		points[loc.StartTime] = p
		gpsTimes = append(gpsTimes, loc.StartTime)
	}
	sort.Slice(gpsTimes, func(i, j int) bool { return gpsTimes[i] < gpsTimes[j] })

	for _, s := range live {
		ts := s.StartTime
		if _, ok := points[ts]; !ok && len(gpsTimes) > 0 {
			if nearest, d := nearestTime(gpsTimes, ts); d <= tolerance.Milliseconds() {
				ts = nearest
			}
		}
		p, ok := points[ts]
		if !ok {
			p = &types.TrackPoint{Time: time.UnixMilli(ts).UTC()}
			points[ts] = p
		}
		if s.HeartRate != nil && p.HeartRate == nil {
			hr := int(math.Round(*s.HeartRate))
			p.HeartRate = &hr
		}
		if s.Cadence != nil && p.Cadence == nil {
			c := int(math.Round(*s.Cadence))
			p.Cadence = &c
		}
		if s.Speed != nil && p.Speed == nil {
			p.Speed = s.Speed
		}
		if s.Distance != nil && p.Distance == nil {
			p.Distance = s.Distance
		}
	}

	merged := make([]types.TrackPoint, 0, len(points))
	for _, p := range points {
		merged = append(merged, *p)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Time.Before(merged[j].Time) })

	carryHeartRate(merged)
	return merged
}

// nearestTime returns the element of sorted closest to ts and its distance.
func nearestTime(sorted []int64, ts int64) (nearest int64, dist int64) {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= ts })
	nearest = sorted[len(sorted)-1]
	if i < len(sorted) {
		nearest = sorted[i]
	}
	if i > 0 && abs64(sorted[i-1]-ts) < abs64(nearest-ts) {
		nearest = sorted[i-1]
	}
	return nearest, abs64(nearest - ts)
}

// carryHeartRate fills heart-rate gaps from the last recorded reading.
// Points before the first reading stay unset; there is nothing truthful to
// put there.
func carryHeartRate(points []types.TrackPoint) {
	var last *int
	for i := range points {
		if points[i].HeartRate != nil {
			last = points[i].HeartRate
		} else if last != nil {
			hr := *last
			points[i].HeartRate = &hr
		}
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
