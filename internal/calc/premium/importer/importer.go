package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Slope/internal/calc/premium/batch"
	"Slope/internal/calc/slope"

	"github.com/xuri/excelize/v2"
)

var ErrEmptySheet = errors.New("empty sheet")

// Columns of an import sheet, in order. The first row is a header and is
// skipped.
var Columns = []string{"height", "slope_angle", "cohesion", "friction", "unit_weight", "quick"}

const requiredColumns = 5

// Parsed is the usable content of an import sheet.
type Parsed struct {
	Items   []slope.Input
	Skipped int
}

// ReadSlopes reads slope cases from the first sheet of an XLSX workbook.
// Rows that don't parse are skipped and counted.
func ReadSlopes(r io.Reader) (Parsed, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Parsed{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Parsed{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return Parsed{}, ErrEmptySheet
	}

	var out Parsed
	for _, row := range rows[1:] {
		in, err := parseRow(row)
		if err != nil {
			out.Skipped++
			continue
		}
		out.Items = append(out.Items, in)
	}
	return out, nil
}

func parseRow(row []string) (slope.Input, error) {
	if len(row) < requiredColumns {
		return slope.Input{}, fmt.Errorf("bad row")
	}
	var vals [requiredColumns]float64
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(row[i], ",", ".", 1)), 64)
		if err != nil {
			return slope.Input{}, fmt.Errorf("column %s: %w", Columns[i], err)
		}
		vals[i] = v
	}
	in := slope.Input{
		HeightM:          vals[0],
		SlopeAngleDeg:    vals[1],
		CohesionKPa:      vals[2],
		FrictionAngleDeg: vals[3],
		UnitWeightKNM3:   vals[4],
	}
	if len(row) > requiredColumns {
		switch strings.ToLower(strings.TrimSpace(row[requiredColumns])) {
		case "1", "true", "yes":
			in.Quick = true
		}
	}
	return in, nil
}

var resultHeader = []interface{}{
	"height", "slope_angle", "cohesion", "friction", "unit_weight",
	"center_x", "center_y", "radius", "fos", "stable", "error",
}

// WriteResults writes the batch outcome as a single-sheet workbook, one row
// per input case.
func WriteResults(w io.Writer, items []slope.Input, res batch.SlopeBatchResult) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &resultHeader); err != nil {
		return err
	}
	for i, item := range res.Results {
		in := items[i]
		row := []interface{}{in.HeightM, in.SlopeAngleDeg, in.CohesionKPa, in.FrictionAngleDeg, in.UnitWeightKNM3}
		if r := item.Result; r != nil {
			row = append(row, r.Center.X, r.Center.Y, r.RadiusM, r.FoS, r.Stable, "")
		} else {
			row = append(row, nil, nil, nil, nil, nil, item.Error)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
