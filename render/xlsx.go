package render

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/AnkushinDaniil/spdc/entity"
	"github.com/AnkushinDaniil/spdc/entity/parameters"
)

const (
	parametersSheet = "Parameters"
	curveSheet      = "Curve"
)

// XLSX writes a workbook with a parameter sheet and the sampled curve.
func XLSX(w io.Writer, c *entity.Curve) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeParameters(f, c); err != nil {
		return err
	}
	if err := writeCurve(f, c); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeParameters(f *excelize.File, c *entity.Curve) error {
	if err := f.SetSheetName("Sheet1", parametersSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	r := c.Result()
	rows := [][]interface{}{{"key", "label", "value"}}
	for _, s := range parameters.Specs() {
		rows = append(rows, []interface{}{s.Key, s.Label, s.Get(r.Parameters)})
	}
	rows = append(rows,
		[]interface{}{parameters.NormalizedKey, "Normalized calculation", r.Parameters.Normalized},
		[]interface{}{"optimum_um", "Theoretical optimum waist (µm)", cellValue(r.Optimum)},
		[]interface{}{"peak_um", "Peak waist from simulation (µm)", cellValue(r.Peak.Waist)},
		[]interface{}{"peak_rate", "Peak rate", cellValue(r.Peak.Rate)},
	)
	return setRows(f, parametersSheet, rows)
}

func writeCurve(f *excelize.File, c *entity.Curve) error {
	if _, err := f.NewSheet(curveSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	r := c.Result()
	rows := make([][]interface{}, 0, len(r.Waists)+1)
	rows = append(rows, []interface{}{"waist_um", "xi", "efficiency", "rate"})
	for i := range r.Waists {
		rows = append(rows, []interface{}{
			cellValue(r.Waists[i]),
			cellValue(r.Xis[i]),
			cellValue(r.Efficiencies[i]),
			cellValue(r.Rates[i]),
		})
	}
	if err := setRows(f, curveSheet, rows); err != nil {
		return err
	}

	last := len(r.Waists) + 1
	err := f.AddChart(curveSheet, "F2", &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$D$1", curveSheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", curveSheet, last),
			Values:     fmt.Sprintf("%s!$D$2:$D$%d", curveSheet, last),
		}},
		Title: []excelize.RichTextRun{{Text: Title}},
	})
	if err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// cellValue keeps NaN and Inf out of numeric cells.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return v
}
