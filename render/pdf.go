package render

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/AnkushinDaniil/spdc/entity"
	"github.com/AnkushinDaniil/spdc/entity/parameters"
)

// PDF writes an A4 report with the parameters, both waists and the plot.
func PDF(w io.Writer, c *entity.Curve) error {
	var img bytes.Buffer
	if err := PNG(&img, c); err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}

	r := c.Result()
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	for _, line := range c.Summary() {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 7, "Parameter", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "Value", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, s := range parameters.Specs() {
		pdf.CellFormat(90, 6, tr(s.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, s.Text(r.Parameters), "1", 1, "R", false, 0, "")
	}
	pdf.CellFormat(90, 6, "Normalized calculation", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, fmt.Sprintf("%t", r.Parameters.Normalized), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("curve", imgOpts, &img)
	pdf.ImageOptions("curve", 10, pdf.GetY(), 190, 0, false, imgOpts, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
