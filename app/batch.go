package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/AnkushinDaniil/spdc/entity/parameters"
	"github.com/AnkushinDaniil/spdc/spdc"
)

const resultsSheet = "Results"

var resultColumns = []string{"optimum_um", "peak_um", "peak_rate", "error"}

// Row is one parameter set of a batch workbook. Line is the 1-based
// spreadsheet row it came from.
type Row struct {
	Line   int
	Params parameters.Parameters
	Result spdc.Result
	Err    error
}

// Batch simulates every row of a parameter workbook and writes a results
// workbook next to Output.
type Batch struct {
	Input   string
	Output  string
	Options []spdc.Option
}

func NewBatch(input, output string, opts ...spdc.Option) *Batch {
	return &Batch{Input: input, Output: output, Options: opts}
}

func (b *Batch) Run(ctx context.Context) error {
	batchTime := time.Now()
	defer func() {
		log.WithField("time", time.Since(batchTime)).Debug("Batch finished")
	}()

	in, err := os.Open(b.Input)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer in.Close()

	rows, err := ReadRows(in)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"input": b.Input, "rows": len(rows)}).Info("Parameter rows read")

	if err := Evaluate(ctx, rows, b.Options...); err != nil {
		return err
	}

	path := b.Output + ".xlsx"
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if err := WriteRows(out, rows); err != nil {
		return err
	}
	log.WithField("path", path).Info("Batch results saved")
	return nil
}

// ReadRows reads the first sheet of a workbook. The header row names the
// columns by parameter key; missing columns and empty cells keep their
// default values.
func ReadRows(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(cells) < 2 {
		return nil, errors.New("workbook has no parameter rows")
	}

	header := make([]string, len(cells[0]))
	for i, name := range cells[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	rows := make([]Row, 0, len(cells)-1)
	for i, line := range cells[1:] {
		if isBlank(line) {
			continue
		}
		row := Row{Line: i + 2, Params: parameters.Default()}
		row.Err = parseRow(header, line, &row.Params)
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(header, line []string, p *parameters.Parameters) error {
	for i, text := range line {
		text = strings.TrimSpace(text)
		if i >= len(header) || text == "" {
			continue
		}
		if header[i] == parameters.NormalizedKey {
			v, err := parameters.ParseBool(text)
			if err != nil {
				return fmt.Errorf("column %s: %w", header[i], err)
			}
			p.Normalized = v
			continue
		}
		s, ok := parameters.Lookup(header[i])
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("column %s: %w", header[i], err)
		}
		s.Set(p, v)
	}
	return nil
}

func isBlank(line []string) bool {
	for _, text := range line {
		if strings.TrimSpace(text) != "" {
			return false
		}
	}
	return true
}

// Evaluate validates and simulates every row that parsed cleanly.
func Evaluate(ctx context.Context, rows []Row, opts ...spdc.Option) error {
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := &rows[i]
		if row.Err == nil {
			row.Err = row.Params.Validate()
		}
		if row.Err != nil {
			log.WithFields(log.Fields{"line": row.Line, "error": row.Err}).Warn("Skipping parameter row")
			continue
		}
		row.Result = spdc.Simulate(row.Params, opts...)
		if row.Result.Degenerate() {
			row.Err = fmt.Errorf("efficiency at the optimum waist is %g", row.Result.Reference)
		}
	}
	return nil
}

// WriteRows writes the inputs and results of every row.
func WriteRows(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	specs := parameters.Specs()
	header := make([]interface{}, 0, len(specs)+1+len(resultColumns))
	for _, s := range specs {
		header = append(header, s.Key)
	}
	header = append(header, parameters.NormalizedKey)
	for _, c := range resultColumns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, 0, len(header))
		for _, s := range specs {
			values = append(values, s.Get(row.Params))
		}
		values = append(values, row.Params.Normalized)
		if row.Err != nil {
			values = append(values, "", "", "", row.Err.Error())
		} else {
			values = append(values, row.Result.Optimum, row.Result.Peak.Waist, row.Result.Peak.Rate, "")
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(resultsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
