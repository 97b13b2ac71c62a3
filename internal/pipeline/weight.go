// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/trackconvert/internal/csvout"
	"github.com/pdiddy/trackconvert/internal/locate"
	"github.com/pdiddy/trackconvert/internal/normalize"
	"github.com/pdiddy/trackconvert/internal/parse"
	"github.com/pdiddy/trackconvert/pkg/types"
)

// DefaultWeightChunkSize keeps each output file under the import pipeline's
// size ceiling; anything below 4 KB goes through reliably.
const DefaultWeightChunkSize = 75

var weightColumns = []string{"Date", "Weight", "Height", "BMI", "Fat"}

// RunWeight converts the weight export into numbered, chunked CSV files.
func RunWeight(cfg types.WeightConfig, w io.Writer) (Result, error) {
	var res Result

	path, err := locate.Find(cfg.SourceDir, locate.CategoryWeight)
	if err != nil {
		return res, err
	}
	fmt.Fprintf(w, "Reading weight data from %s\n", filepath.Base(path))

	r, err := parse.Open(path, "start_time", "weight")
	if err != nil {
		return res, err
	}
	defer r.Close()

	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = DefaultWeightChunkSize
	}
	out, err := csvout.NewWriter(outPath(cfg.SourceDir, cfg.OutDir), "Body", "weight-export-%d.csv", weightColumns, chunk)
	if err != nil {
		return res, err
	}

	for {
		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}

		rec, err := normalize.Weight(raw)
		if err != nil {
			res.skip(w, recordLabel(raw), err.Error())
			continue
		}

		if err := out.Write(weightRow(rec)); err != nil {
			return res, err
		}
		res.Converted++
	}

	if err := out.Close(); err != nil {
		return res, err
	}

	for _, warn := range r.Warnings() {
		res.skip(w, "row", warn)
	}
	for _, name := range out.Files() {
		fmt.Fprintf(w, "wrote: %s\n", name)
	}
	res.summary(w, "exported")
	return res, nil
}

// weightRow renders one record in column order. An unrecorded body-fat
// value stays an empty field; writing a zero would fabricate a measurement.
func weightRow(rec types.WeightRecord) []string {
	fat := ""
	if rec.FatPercent != nil {
		fat = formatFloat(*rec.FatPercent)
	}
	return []string{
		rec.Date,
		formatFloat(rec.Weight),
		formatFloat(rec.Height),
		formatFloat(rec.BMI),
		fat,
	}
}

// formatFloat renders a float the shortest way that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
