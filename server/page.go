package server

import (
	"bytes"
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/spdc/entity/format"
	"github.com/AnkushinDaniil/spdc/entity/parameters"
	"github.com/AnkushinDaniil/spdc/render"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
form { width: 280px; padding: 16px; background: #f4f4f6; min-height: 100vh; box-sizing: border-box; }
label { display: block; margin-top: 10px; font-size: 14px; }
input[type=number] { width: 100%; }
main { flex: 1; padding: 16px; }
.error { color: #b00020; }
iframe { width: 100%; height: 640px; border: 0; }
</style>
</head>
<body>
<form method="get" action="/">
<h3>Input Parameters</h3>
{{range .Inputs}}<label>{{.Label}}
<input type="number" name="{{.Key}}" min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Value}}">
</label>
{{end}}<label><input type="hidden" name="normalized" value="false"><input type="checkbox" name="normalized" value="true"{{if .Normalized}} checked{{end}}> Normalized calculation</label>
<p><button type="submit">Update</button></p>
</form>
<main>
<h1>{{.Title}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{else}}{{range .Summary}}<h3>{{.}}</h3>
{{end}}<iframe src="{{.ChartURL}}"></iframe>
<p>Download:{{range .Exports}} <a href="{{.URL}}">{{.Name}}</a>{{end}}</p>{{end}}
</main>
</body>
</html>
`))

type pageInput struct {
	Key, Label string
	Min, Max   float64
	Step       float64
	Value      string
}

type pageExport struct {
	Name string
	URL  template.URL
}

type pageData struct {
	Title      string
	Inputs     []pageInput
	Normalized bool
	Error      string
	Summary    []string
	ChartURL   template.URL
	Exports    []pageExport
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	data := pageData{Title: render.Title}

	p, err := parseParams(r.URL.Query(), s.cfg.Defaults)
	if err != nil {
		status = http.StatusBadRequest
		data.Error = err.Error()
	} else {
		curve, err := s.simulate(p)
		if err != nil {
			status = http.StatusInternalServerError
			data.Error = err.Error()
		} else {
			data.Summary = curve.Summary()
			if curve.Result().Degenerate() {
				data.Summary = append(data.Summary, "Efficiency at the optimum waist is too small, the curve is not finite.")
			}
		}
	}

	for _, spec := range parameters.Specs() {
		data.Inputs = append(data.Inputs, pageInput{
			Key:   spec.Key,
			Label: spec.Label,
			Min:   spec.Min,
			Max:   spec.Max,
			Step:  spec.Step,
			Value: spec.Text(p),
		})
	}
	data.Normalized = p.Normalized

	query := encodeParams(p).Encode()
	data.ChartURL = template.URL("/chart?" + query)
	for _, f := range []format.Format{format.Png, format.Pdf, format.Csv, format.Xlsx, format.HTML} {
		data.Exports = append(data.Exports, pageExport{
			Name: f.String(),
			URL:  template.URL("/export/" + f.String() + "?" + query),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		log.WithError(err).Error("Failed to render page")
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Debug("Failed to write response")
	}
}
