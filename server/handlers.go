package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/spdc/app"
	"github.com/AnkushinDaniil/spdc/entity"
	"github.com/AnkushinDaniil/spdc/entity/format"
	"github.com/AnkushinDaniil/spdc/entity/parameters"
	"github.com/AnkushinDaniil/spdc/render"
	"github.com/AnkushinDaniil/spdc/spdc"
)

type simulateResponse struct {
	Parameters   parameters.Parameters `json:"parameters"`
	Optimum      float64               `json:"optimum_um"`
	OptimumXi    float64               `json:"optimum_xi"`
	Peak         spdc.Point            `json:"peak"`
	OptimumLabel string                `json:"optimum_label"`
	PeakLabel    string                `json:"peak_label"`
	Waists       []float64             `json:"waists_um"`
	Rates        []float64             `json:"rates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// parseParams overlays the query string onto defaults. The checkbox form
// sends normalized=false followed by normalized=true when ticked, so the
// last value wins.
func parseParams(q url.Values, defaults parameters.Parameters) (parameters.Parameters, error) {
	p := defaults
	for _, s := range parameters.Specs() {
		text := q.Get(s.Key)
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return p, fmt.Errorf("invalid %s: %q", s.Key, text)
		}
		s.Set(&p, v)
	}
	if values := q[parameters.NormalizedKey]; len(values) > 0 {
		v, err := parameters.ParseBool(values[len(values)-1])
		if err != nil {
			return p, fmt.Errorf("invalid %s: %w", parameters.NormalizedKey, err)
		}
		p.Normalized = v
	}
	return p, p.Validate()
}

// encodeParams is the inverse of parseParams.
func encodeParams(p parameters.Parameters) url.Values {
	q := url.Values{}
	for _, s := range parameters.Specs() {
		q.Set(s.Key, strconv.FormatFloat(s.Get(p), 'g', -1, 64))
	}
	q.Set(parameters.NormalizedKey, strconv.FormatBool(p.Normalized))
	return q
}

func (s *Server) simulate(p parameters.Parameters) (*entity.Curve, error) {
	curve, err := app.Simulate(p, s.cfg.Simulate...)
	if err != nil {
		return nil, err
	}
	simulationsTotal.Inc()
	if curve.Result().Degenerate() {
		degenerateTotal.Inc()
	}
	return curve, nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r.URL.Query(), s.cfg.Defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeFormat(w, p, format.HTML, false)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := format.UnmarshalText(mux.Vars(r)["format"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	p, err := parseParams(r.URL.Query(), s.cfg.Defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeFormat(w, p, f, true)
}

func (s *Server) writeFormat(w http.ResponseWriter, p parameters.Parameters, f format.Format, attachment bool) {
	curve, err := s.simulate(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	renderer, err := render.For(f)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, curve); err != nil {
		log.WithError(err).WithField("format", f).Error("Failed to render")
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "coincidence_rate"+f.Ext()))
	}
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Debug("Failed to write response")
	}
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r.URL.Query(), s.cfg.Defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	curve, err := s.simulate(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	res := curve.Result()
	if res.Degenerate() {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("efficiency at the optimum waist is %g, rates are not finite", res.Reference))
		return
	}

	writeJSON(w, http.StatusOK, simulateResponse{
		Parameters:   res.Parameters,
		Optimum:      res.Optimum,
		OptimumXi:    res.OptimumXi,
		Peak:         res.Peak,
		OptimumLabel: curve.OptimumLabel(),
		PeakLabel:    curve.PeakLabel(),
		Waists:       res.Waists,
		Rates:        res.Rates,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: "encoding failed"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Debug("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
