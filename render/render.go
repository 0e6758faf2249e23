// Package render draws a simulated rate curve in each supported output
// format.
package render

import (
	"fmt"
	"io"

	"github.com/AnkushinDaniil/spdc/entity"
	"github.com/AnkushinDaniil/spdc/entity/format"
)

const Title = "SPDC Type-II Coincidence Rate vs Beam Waist"

type Renderer interface {
	Render(w io.Writer, c *entity.Curve) error
}

type RendererFunc func(w io.Writer, c *entity.Curve) error

func (f RendererFunc) Render(w io.Writer, c *entity.Curve) error {
	return f(w, c)
}

// For returns the renderer writing f.
func For(f format.Format) (Renderer, error) {
	switch f {
	case format.HTML:
		return RendererFunc(HTML), nil
	case format.Png:
		return RendererFunc(PNG), nil
	case format.Csv:
		return RendererFunc(CSV), nil
	case format.Pdf:
		return RendererFunc(PDF), nil
	case format.Xlsx:
		return RendererFunc(XLSX), nil
	default:
		return nil, fmt.Errorf("no renderer for %s", f)
	}
}
