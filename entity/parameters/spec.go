package parameters

import (
	"fmt"
	"strings"
)

// Spec describes one numeric input: its key (shared by flags, query
// strings, YAML files and spreadsheet headers), a display label and the
// accepted range.
type Spec struct {
	Key    string
	Label  string
	Min    float64
	Max    float64
	Step   float64
	Format string
	field  func(p *Parameters) *float64
}

var specs = []Spec{
	{Key: "m2", Label: "Beam M²", Min: 1, Max: 5, Step: 0.01, Format: "%.2f",
		field: func(p *Parameters) *float64 { return &p.M2 }},
	{Key: "wavelength", Label: "Wavelength (nm)", Min: 350, Max: 800, Step: 1, Format: "%.1f",
		field: func(p *Parameters) *float64 { return &p.Wavelength }},
	{Key: "focal", Label: "Focal Length (mm)", Min: 10, Max: 500, Step: 1, Format: "%.1f",
		field: func(p *Parameters) *float64 { return &p.FocalLength }},
	{Key: "diameter", Label: "Input Diameter (mm)", Min: 0.1, Max: 10, Step: 0.1, Format: "%.2f",
		field: func(p *Parameters) *float64 { return &p.InputDiameter }},
	{Key: "crystal", Label: "Crystal Length (mm)", Min: 1, Max: 100, Step: 1, Format: "%.1f",
		field: func(p *Parameters) *float64 { return &p.CrystalLength }},
	{Key: "brightness", Label: "Brightness (pairs/s/mW)", Min: 0, Max: 1e6, Step: 1000, Format: "%.1f",
		field: func(p *Parameters) *float64 { return &p.Brightness }},
	{Key: "power", Label: "Pump Power (mW)", Min: 0.01, Max: 1000, Step: 0.01, Format: "%.2f",
		field: func(p *Parameters) *float64 { return &p.Power }},
	{Key: "det-eff", Label: "Detector efficiency", Min: 0, Max: 1, Step: 0.01, Format: "%.2f",
		field: func(p *Parameters) *float64 { return &p.DetectorEfficiency }},
	{Key: "coup-eff", Label: "Coupling efficiency", Min: 0, Max: 1, Step: 0.01, Format: "%.2f",
		field: func(p *Parameters) *float64 { return &p.CouplingEfficiency }},
}

// NormalizedKey names the boolean input wherever the numeric keys are used.
const NormalizedKey = "normalized"

// Specs returns the numeric inputs in display order.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup finds the spec with the given key.
func Lookup(key string) (Spec, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, s := range specs {
		if s.Key == key {
			return s, true
		}
	}
	return Spec{}, false
}

func (s Spec) Get(p Parameters) float64 {
	return *s.field(&p)
}

func (s Spec) Set(p *Parameters, v float64) {
	*s.field(p) = v
}

// Text formats the spec's value in p the way the input widgets display it.
func (s Spec) Text(p Parameters) string {
	return fmt.Sprintf(s.Format, s.Get(p))
}

// ParseBool accepts the spellings used in env files and spreadsheets.
func ParseBool(text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %q", text)
	}
}
