package parameters

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.InDelta(t, 0.405, Default().WavelengthMicrometers(), 1e-15)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *Parameters)
		field string
	}{
		{"M² below one", func(p *Parameters) { p.M2 = 0.9 }, "m2"},
		{"wavelength too long", func(p *Parameters) { p.Wavelength = 1064 }, "wavelength"},
		{"zero diameter", func(p *Parameters) { p.InputDiameter = 0 }, "diameter"},
		{"negative brightness", func(p *Parameters) { p.Brightness = -1 }, "brightness"},
		{"efficiency above one", func(p *Parameters) { p.CouplingEfficiency = 1.2 }, "coup-eff"},
		{"NaN power", func(p *Parameters) { p.Power = math.NaN() }, "power"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.edit(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrOutOfRange))

			var rangeErr *RangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.field, rangeErr.Field)
		})
	}
}

func TestValidateAcceptsBounds(t *testing.T) {
	p := Default()
	for _, s := range Specs() {
		s.Set(&p, s.Min)
	}
	assert.NoError(t, p.Validate())
	for _, s := range Specs() {
		s.Set(&p, s.Max)
	}
	assert.NoError(t, p.Validate())
}

func TestSpecs(t *testing.T) {
	specs := Specs()
	require.Len(t, specs, 9)

	s, ok := Lookup(" Focal ")
	require.True(t, ok)
	assert.Equal(t, "Focal Length (mm)", s.Label)
	assert.Equal(t, 200.0, s.Get(Default()))
	assert.Equal(t, "200.0", s.Text(Default()))

	p := Default()
	s.Set(&p, 150)
	assert.Equal(t, 150.0, p.FocalLength)

	_, ok = Lookup("speed")
	assert.False(t, ok)

	specs[0].Key = "changed"
	_, ok = Lookup("m2")
	assert.True(t, ok)
}

func TestParseBool(t *testing.T) {
	for _, text := range []string{"true", "1", "YES", " on "} {
		v, err := ParseBool(text)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, text := range []string{"false", "0", "no", "off"} {
		v, err := ParseBool(text)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}
