package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/AnkushinDaniil/spdc/entity"
)

var csvHeader = []string{"waist_um", "xi", "efficiency", "rate"}

// CSV writes one row per swept waist.
func CSV(w io.Writer, c *entity.Curve) error {
	r := c.Result()
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range r.Waists {
		row := []string{
			formatFloat(r.Waists[i]),
			formatFloat(r.Xis[i]),
			formatFloat(r.Efficiencies[i]),
			formatFloat(r.Rates[i]),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
