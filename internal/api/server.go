// SPDX-License-Identifier: MIT

// Package api provides the daemon's HTTP surface: health probes, scan
// control, run history and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuslib/mvol-validate/internal/config"
	"github.com/campuslib/mvol-validate/internal/jobs"
	"github.com/campuslib/mvol-validate/internal/store"
)

// ScanFunc runs a scan and returns its report. The daemon wires this to the
// full scan-persist-report pipeline; tests stub it.
type ScanFunc func(ctx context.Context) (*jobs.Report, error)

// ErrScanInProgress is returned by Scan when a run is already in flight.
var ErrScanInProgress = errors.New("scan already in progress")

// Server is the HTTP API server.
type Server struct {
	cfg       config.AppConfig
	history   *store.Store
	scanFn    ScanFunc
	version   string
	startTime time.Time
	scanning  atomic.Bool // set while any scan runs, whatever its origin
}

// NewServer creates the API server.
func NewServer(cfg config.AppConfig, history *store.Store, scanFn ScanFunc, version string) *Server {
	return &Server{
		cfg:       cfg,
		history:   history,
		scanFn:    scanFn,
		version:   version,
		startTime: time.Now(),
	}
}

// Scan invokes the wired scan unless one is already running. Every scan
// origin (API request, interval timer, filesystem watcher) goes through
// here, so the status endpoint reflects any in-flight run.
func (s *Server) Scan(ctx context.Context) (*jobs.Report, error) {
	if !s.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer s.scanning.Store(false)
	return s.scanFn(ctx)
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/scan", s.handleScan)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
		r.Get("/runs/{id}/findings", s.handleRunFindings)
	})
	return r
}

// readiness: the data root must be reachable and the history store open.
func (s *Server) ready() bool {
	if info, err := os.Stat(s.cfg.Root); err != nil || !info.IsDir() {
		return false
	}
	return s.history != nil
}
