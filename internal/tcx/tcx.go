// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tcx serializes exercise records as Training Center Database XML,
// the activity/lap/track/trackpoint hierarchy the import pipeline accepts.
package tcx

import (
	"encoding/xml"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pdiddy/trackconvert/pkg/types"
)

// Namespace URIs and the schema location the document header declares.
const (
	nsTCX    = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	nsUser   = "http://www.garmin.com/xmlschemas/UserProfile/v2"
	nsActExt = "http://www.garmin.com/xmlschemas/ActivityExtension/v2"
	nsProf   = "http://www.garmin.com/xmlschemas/ProfileExtension/v1"
	nsGoals  = "http://www.garmin.com/xmlschemas/ActivityGoals/v1"
	nsXSI    = "http://www.w3.org/2001/XMLSchema-instance"

	schemaLocation = nsTCX + " http://www.garmin.com/xmlschemas/TrainingCenterDatabasev2.xsd"
)

// Timestamp layouts. The lap start doubles as the activity Id; trackpoints
// carry millisecond precision because the vendor traces do.
const (
	idLayout    = "2006-01-02T15:04:05Z07:00"
	pointLayout = "2006-01-02T15:04:05.000Z07:00"
)

type document struct {
	XMLName        xml.Name `xml:"TrainingCenterDatabase"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`
	Version        string   `xml:"version,attr"`
	Xmlns          string   `xml:"xmlns,attr"`
	XmlnsNs2       string   `xml:"xmlns:ns2,attr"`
	XmlnsNs3       string   `xml:"xmlns:ns3,attr"`
	XmlnsNs4       string   `xml:"xmlns:ns4,attr"`
	XmlnsNs5       string   `xml:"xmlns:ns5,attr"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
	Activities     activities
}

type activities struct {
	XMLName  xml.Name  `xml:"Activities"`
	Activity *activity `xml:",omitempty"`
}

type activity struct {
	XMLName xml.Name `xml:"Activity"`
	Sport   string   `xml:"Sport,attr"`
	ID      string   `xml:"Id"`
	Lap     lap
}

type lap struct {
	XMLName          xml.Name       `xml:"Lap"`
	StartTime        string         `xml:"StartTime,attr"`
	TotalTimeSeconds float64        `xml:"TotalTimeSeconds"`
	DistanceMeters   *float64       `xml:"DistanceMeters,omitempty"`
	MaximumSpeed     *float64       `xml:"MaximumSpeed,omitempty"`
	Calories         *int           `xml:"Calories,omitempty"`
	AvgHeartRate     *heartRate     `xml:"AverageHeartRateBpm,omitempty"`
	MaxHeartRate     *heartRate     `xml:"MaximumHeartRateBpm,omitempty"`
	Intensity        string         `xml:"Intensity"`
	TriggerMethod    string         `xml:"TriggerMethod"`
	Track            *track         `xml:"Track,omitempty"`
	Extensions       *lapExtensions `xml:"Extensions,omitempty"`
}

type heartRate struct {
	Value int `xml:"Value"`
}

type track struct {
	Trackpoints []trackpoint `xml:"Trackpoint"`
}

type trackpoint struct {
	Time      string     `xml:"Time"`
	Position  *position  `xml:"Position,omitempty"`
	Altitude  *float64   `xml:"AltitudeMeters,omitempty"`
	Distance  *float64   `xml:"DistanceMeters,omitempty"`
	HeartRate *heartRate `xml:"HeartRateBpm,omitempty"`
	Cadence   *int       `xml:"Cadence,omitempty"`
}

type position struct {
	LatitudeDegrees  float64 `xml:"LatitudeDegrees"`
	LongitudeDegrees float64 `xml:"LongitudeDegrees"`
}

type lapExtensions struct {
	LX lapLX `xml:"ns3:LX"`
}

type lapLX struct {
	AvgSpeed      *float64 `xml:"ns3:AvgSpeed,omitempty"`
	AvgRunCadence *int     `xml:"ns3:AvgRunCadence,omitempty"`
	MaxRunCadence *int     `xml:"ns3:MaxRunCadence,omitempty"`
}

// Marshal renders one exercise as a complete TCX document, built fully in
// memory. Trackpoints are sorted by timestamp before writing, whatever
// order the normalizer delivered them in.
func Marshal(rec types.ExerciseRecord) ([]byte, error) {
	l := lap{
		StartTime:        rec.StartTime.Format(idLayout),
		TotalTimeSeconds: rec.Duration,
		DistanceMeters:   rec.Distance,
		MaximumSpeed:     rec.MaxSpeed,
		Intensity:        "Active",
		TriggerMethod:    "Manual",
	}
	if rec.Calories != nil {
		kcal := int(math.Round(*rec.Calories))
		l.Calories = &kcal
	}
	if rec.AvgHeartRate != nil {
		l.AvgHeartRate = &heartRate{Value: *rec.AvgHeartRate}
	}
	if rec.MaxHeartRate != nil {
		l.MaxHeartRate = &heartRate{Value: *rec.MaxHeartRate}
	}
	if rec.AvgSpeed != nil || rec.AvgCadence != nil || rec.MaxCadence != nil {
		l.Extensions = &lapExtensions{LX: lapLX{
			AvgSpeed:      rec.AvgSpeed,
			AvgRunCadence: rec.AvgCadence,
			MaxRunCadence: rec.MaxCadence,
		}}
	}
	l.Track = buildTrack(rec.Track)

	doc := document{
		SchemaLocation: schemaLocation,
		Version:        "1.1",
		Xmlns:          nsTCX,
		XmlnsNs2:       nsUser,
		XmlnsNs3:       nsActExt,
		XmlnsNs4:       nsProf,
		XmlnsNs5:       nsGoals,
		XmlnsXSI:       nsXSI,
		Activities: activities{
			Activity: &activity{
				Sport: string(rec.Sport),
				ID:    rec.StartTime.Format(idLayout),
				Lap:   l,
			},
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing TCX document: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// buildTrack sorts, filters, and converts trackpoints. Points carrying only
// a timestamp are dropped, and a track with no surviving points is omitted
// entirely. Per-point speed is not emitted; the importer derives it from the
// coordinates and the two disagree on screen.
func buildTrack(points []types.TrackPoint) *track {
	if len(points) == 0 {
		return nil
	}

	sorted := make([]types.TrackPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	tps := make([]trackpoint, 0, len(sorted))
	for _, p := range sorted {
		if !p.HasData() {
			continue
		}
		tp := trackpoint{Time: p.Time.UTC().Format(pointLayout)}
		if p.HasPosition() {
			tp.Position = &position{
				LatitudeDegrees:  *p.Latitude,
				LongitudeDegrees: *p.Longitude,
			}
		}
		tp.Altitude = p.Altitude
		tp.Distance = p.Distance
		if p.HeartRate != nil {
			tp.HeartRate = &heartRate{Value: *p.HeartRate}
		}
		tp.Cadence = p.Cadence
		tps = append(tps, tp)
	}
	if len(tps) == 0 {
		return nil
	}
	return &track{Trackpoints: tps}
}

// Filename derives the output name for an exercise from its start time, to
// second precision: identical input always produces the identical name.
func Filename(start time.Time) string {
	return start.UTC().Format("20060102-150405") + ".tcx"
}
