package mode

import (
	"fmt"
	"strings"
)

type Mode uint8

const (
	// Curve simulates one parameter set and writes the requested formats.
	Curve Mode = iota
	// Batch simulates every row of a parameter workbook.
	Batch
	// Serve runs the interactive HTTP page.
	Serve
)

func UnmarshalText(text string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "c", "curve":
		return Curve, nil
	case "b", "batch":
		return Batch, nil
	case "s", "serve":
		return Serve, nil
	default:
		return 0, fmt.Errorf("invalid mode: %q", text)
	}
}

func (m Mode) String() string {
	switch m {
	case Curve:
		return "curve"
	case Batch:
		return "batch"
	case Serve:
		return "serve"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}
