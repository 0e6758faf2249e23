// Package server serves the interactive page: a parameter form, the two
// waists and the rate curve, plus JSON and file exports of the same data.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/AnkushinDaniil/spdc/entity/parameters"
	"github.com/AnkushinDaniil/spdc/spdc"
)

const (
	DefaultRateLimit = rate.Limit(10)
	DefaultBurst     = 20
	shutdownTimeout  = 5 * time.Second
)

type Config struct {
	Addr string
	// Defaults fill in parameters missing from a request.
	Defaults  parameters.Parameters
	Simulate  []spdc.Option
	RateLimit rate.Limit
	Burst     int
}

type Server struct {
	cfg     Config
	router  *mux.Router
	limiter *IPRateLimiter
}

func New(cfg Config) *Server {
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Burst == 0 {
		cfg.Burst = DefaultBurst
	}

	s := &Server{
		cfg:     cfg,
		router:  mux.NewRouter(),
		limiter: NewIPRateLimiter(cfg.RateLimit, cfg.Burst),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests, s.limiter.LimitMiddleware)

	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/chart", s.handleChart).Methods(http.MethodGet)
	s.router.HandleFunc("/api/simulate", s.handleSimulate).Methods(http.MethodGet)
	s.router.HandleFunc("/export/{format}", s.handleExport).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.limiter.cleanupLoop(gctx, cleanupInterval, clientIdleTTL)
		return nil
	})
	g.Go(func() error {
		log.WithField("addr", s.cfg.Addr).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		log.Info("Server stopped")
		return nil
	})
	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(startTime)
		observe(r, rec.status, elapsed)
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": rec.status,
			"remote": r.RemoteAddr,
			"time":   elapsed,
		}).Debug("Request served")
	})
}
