// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trackconvert/internal/locate"
	"github.com/pdiddy/trackconvert/internal/parse"
	"github.com/pdiddy/trackconvert/pkg/types"
)

const exerciseHeader = "com.samsung.health.exercise.datauuid," +
	"com.samsung.health.exercise.start_time," +
	"total_calorie," +
	"com.samsung.health.exercise.duration," +
	"com.samsung.health.exercise.exercise_type," +
	"com.samsung.health.exercise.mean_heart_rate," +
	"com.samsung.health.exercise.max_heart_rate," +
	"com.samsung.health.exercise.distance," +
	"com.samsung.health.exercise.location_data," +
	"com.samsung.health.exercise.live_data"

// exerciseRow renders one CSV row matching exerciseHeader.
func exerciseRow(uuid, start, calories, durationMS, exType, avgHR, maxHR, distance, hasLoc, hasLive string) string {
	return strings.Join([]string{uuid, start, calories, durationMS, exType, avgHR, maxHR, distance, hasLoc, hasLive}, ",")
}

// writeExerciseExport writes a complete exercise summary CSV into dir.
func writeExerciseExport(t *testing.T, dir string, rows ...string) {
	t.Helper()
	content := "com.samsung.shealth.exercise,5,0\n" + exerciseHeader + "\n" + strings.Join(rows, "\n") + "\n"
	path := filepath.Join(dir, "com.samsung.shealth.exercise.202312011200.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeTrace writes a JSON trace file where the vendor shards them.
func writeTrace(t *testing.T, dir, uuid string, kind locate.TraceKind, content string) {
	t.Helper()
	path := locate.TracePath(dir, uuid, kind)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func exerciseConfig(dir string) types.ExerciseConfig {
	return types.ExerciseConfig{
		SourceConfig:   types.SourceConfig{SourceDir: dir},
		OutDir:         "exports",
		TraceTolerance: time.Second,
	}
}

func listTCX(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, "exports"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunExercise_Basic(t *testing.T) {
	dir := t.TempDir()
	writeExerciseExport(t, dir,
		exerciseRow("u1", "2023-12-01 10:00:00.000", "420.5", "1800000", "1002", "141.0", "167.0", "5000.0", "", ""),
		exerciseRow("u2", "2023-12-02 09:30:00.000", "300.0", "3600000", "11007", "", "", "20000.0", "", ""),
	)

	var log bytes.Buffer
	res, err := RunExercise(exerciseConfig(dir), &log)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Converted)
	assert.Equal(t, 0, res.Skipped)
	assert.Contains(t, log.String(), "converted: 20231201-100000.tcx")
	assert.Contains(t, log.String(), "Batch summary: 2 converted, 0 skipped")

	names := listTCX(t, dir)
	assert.ElementsMatch(t, []string{"20231201-100000.tcx", "20231202-093000.tcx"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "exports", "20231202-093000.tcx"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `Sport="Biking"`)
}

func TestRunExercise_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	rows := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		start := fmt.Sprintf("2023-12-%02d 10:00:00.000", i+1)
		if i == 4 {
			start = "not-a-timestamp"
		}
		rows = append(rows, exerciseRow(fmt.Sprintf("u%d", i), start, "100.0", "600000", "1002", "", "", "", "", ""))
	}
	writeExerciseExport(t, dir, rows...)

	var log bytes.Buffer
	res, err := RunExercise(exerciseConfig(dir), &log)

	// Skipped records never fail the run.
	require.NoError(t, err)
	assert.Equal(t, 9, res.Converted)
	assert.Equal(t, 1, res.Skipped)
	assert.True(t, res.HasFailures())
	assert.Equal(t, 10, res.Total())
	assert.Contains(t, log.String(), "skipped: u4")
	assert.Len(t, listTCX(t, dir), 9)
}

func TestRunExercise_CollidingStartTimes(t *testing.T) {
	dir := t.TempDir()
	writeExerciseExport(t, dir,
		exerciseRow("u1", "2023-12-01 10:00:00.000", "", "600000", "1002", "", "", "", "", ""),
		exerciseRow("u2", "2023-12-01 10:00:00.000", "", "900000", "Other", "", "", "", "", ""),
	)

	var log bytes.Buffer
	res, err := RunExercise(exerciseConfig(dir), &log)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Converted)

	names := listTCX(t, dir)
	assert.ElementsMatch(t, []string{"20231201-100000.tcx", "20231201-100000-1.tcx"}, names)
}

func TestRunExercise_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeExerciseExport(t, dir,
		exerciseRow("u1", "2023-12-01 10:00:00.000", "420.5", "1800000", "1002", "141.0", "167.0", "5000.0", "1", "1"),
	)
	writeTrace(t, dir, "u1", locate.TraceLocation,
		`[{"start_time": 1701424800000, "latitude": 52.52, "longitude": 13.405},
		  {"start_time": 1701424801000, "latitude": 52.521, "longitude": 13.406}]`)
	writeTrace(t, dir, "u1", locate.TraceLive,
		`[{"start_time": 1701424800000, "heart_rate": 120.0}]`)

	read := func() map[string][]byte {
		files := make(map[string][]byte)
		for _, name := range listTCX(t, dir) {
			data, err := os.ReadFile(filepath.Join(dir, "exports", name))
			require.NoError(t, err)
			files[name] = data
		}
		return files
	}

	_, err := RunExercise(exerciseConfig(dir), &bytes.Buffer{})
	require.NoError(t, err)
	first := read()

	_, err = RunExercise(exerciseConfig(dir), &bytes.Buffer{})
	require.NoError(t, err)
	second := read()

	assert.Equal(t, first, second, "reruns must produce byte-identical output")
}

func TestRunExercise_TraceByIdentifier(t *testing.T) {
	dir := t.TempDir()
	writeExerciseExport(t, dir,
		exerciseRow("u1", "2023-12-01 10:00:00.000", "", "1800000", "1002", "", "", "", "1", "1"),
	)
	writeTrace(t, dir, "u1", locate.TraceLocation,
		`[{"start_time": 1701424800000, "latitude": 52.52, "longitude": 13.405}]`)
	writeTrace(t, dir, "u1", locate.TraceLive,
		`[{"start_time": 1701424800400, "heart_rate": 121.0}]`)

	var log bytes.Buffer
	res, err := RunExercise(exerciseConfig(dir), &log)
	require.NoError(t, err)
	require.Equal(t, 1, res.Converted)

	data, err := os.ReadFile(filepath.Join(dir, "exports", "20231201-100000.tcx"))
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "<Track>")
	assert.Contains(t, s, "<LatitudeDegrees>52.52</LatitudeDegrees>")
	// The 400ms-off heart rate reading lands on the GPS fix.
	assert.Contains(t, s, "<Value>121</Value>")
}

func TestRunExercise_TraceByStartTime(t *testing.T) {
	dir := t.TempDir()
	// No session identifier: the trace is found by start-time proximity.
	writeExerciseExport(t, dir,
		exerciseRow("", "2023-12-01 10:00:00.000", "", "1800000", "1002", "", "", "", "1", ""),
	)
	writeTrace(t, dir, "z9", locate.TraceLocation,
		`[{"start_time": 1701424800250, "latitude": 52.52, "longitude": 13.405}]`)

	var log bytes.Buffer
	res, err := RunExercise(exerciseConfig(dir), &log)
	require.NoError(t, err)
	require.Equal(t, 1, res.Converted)

	data, err := os.ReadFile(filepath.Join(dir, "exports", "20231201-100000.tcx"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Track>")
}

func TestRunExercise_MalformedTraceDegradesToTrackless(t *testing.T) {
	dir := t.TempDir()
	writeExerciseExport(t, dir,
		exerciseRow("u1", "2023-12-01 10:00:00.000", "", "1800000", "1002", "", "", "", "1", ""),
	)
	writeTrace(t, dir, "u1", locate.TraceLocation, "{broken")

	var log bytes.Buffer
	res, err := RunExercise(exerciseConfig(dir), &log)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Converted)
	assert.Contains(t, log.String(), "warning:")

	data, err := os.ReadFile(filepath.Join(dir, "exports", "20231201-100000.tcx"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<Track>")
}

func TestRunExercise_NoInput(t *testing.T) {
	var log bytes.Buffer
	_, err := RunExercise(exerciseConfig(t.TempDir()), &log)
	require.ErrorIs(t, err, locate.ErrNotFound)
}

func TestRunExercise_UnrecognizedHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "com.samsung.shealth.exercise.202312011200.csv")
	require.NoError(t, os.WriteFile(path, []byte("banner\nfoo,bar\nx,y\n"), 0o644))

	_, err := RunExercise(exerciseConfig(dir), &bytes.Buffer{})
	require.ErrorIs(t, err, parse.ErrParse)
}

func TestRunExercise_Report(t *testing.T) {
	dir := t.TempDir()
	writeExerciseExport(t, dir,
		exerciseRow("u1", "2023-12-01 10:00:00.000", "", "600000", "1002", "", "", "", "", ""),
		exerciseRow("u2", "bad", "", "600000", "1002", "", "", "", "", ""),
	)

	cfg := exerciseConfig(dir)
	cfg.ReportPath = filepath.Join(dir, "report.yaml")

	_, err := RunExercise(cfg, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "converted: 1")
	assert.Contains(t, string(data), "skipped: 1")
}
