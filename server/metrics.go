package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spdc_requests_total",
		Help: "Requests served, by route and status code",
	}, []string{"route", "code"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spdc_request_duration_seconds",
		Help:    "Request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	simulationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spdc_simulations_total",
		Help: "Rate curves computed",
	})
	degenerateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spdc_degenerate_simulations_total",
		Help: "Rate curves whose reference efficiency vanished",
	})
	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spdc_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter",
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unknown"
}

func observe(r *http.Request, status int, elapsed time.Duration) {
	route := routeName(r)
	requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
