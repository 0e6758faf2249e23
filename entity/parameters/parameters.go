package parameters

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is wrapped by every RangeError.
var ErrOutOfRange = errors.New("parameter out of range")

// Parameters is the physical setup of the source. Lengths are in
// millimetres except Wavelength, which is in nanometres.
type Parameters struct {
	M2                 float64 `yaml:"m2" json:"m2"`
	Wavelength         float64 `yaml:"wavelength" json:"wavelength_nm"`
	FocalLength        float64 `yaml:"focal" json:"focal_mm"`
	InputDiameter      float64 `yaml:"diameter" json:"diameter_mm"`
	CrystalLength      float64 `yaml:"crystal" json:"crystal_mm"`
	Brightness         float64 `yaml:"brightness" json:"brightness"`
	Power              float64 `yaml:"power" json:"power_mw"`
	DetectorEfficiency float64 `yaml:"det-eff" json:"det_eff"`
	CouplingEfficiency float64 `yaml:"coup-eff" json:"coup_eff"`
	Normalized         bool    `yaml:"normalized" json:"normalized"`
}

// Default returns the reference setup: a 405 nm pump focused by a 200 mm
// lens into a 25 mm crystal.
func Default() Parameters {
	return Parameters{
		M2:                 1.1,
		Wavelength:         405,
		FocalLength:        200,
		InputDiameter:      2,
		CrystalLength:      25,
		Brightness:         84200,
		Power:              4.8,
		DetectorEfficiency: 0.65,
		CouplingEfficiency: 0.11,
		Normalized:         true,
	}
}

// WavelengthMicrometers converts the pump wavelength to the unit the
// waist formulas work in.
func (p Parameters) WavelengthMicrometers() float64 {
	return p.Wavelength / 1000
}

// Validate checks every numeric field against its accepted input range.
func (p Parameters) Validate() error {
	for _, s := range Specs() {
		v := s.Get(p)
		if math.IsNaN(v) || v < s.Min || v > s.Max {
			return &RangeError{Field: s.Key, Value: v, Min: s.Min, Max: s.Max}
		}
	}
	return nil
}

type RangeError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s = %g is outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
