// SPDX-License-Identifier: MIT

// daemon runs the campus publications validator as a long-lived service:
// periodic scans, filesystem-triggered rescans, and an HTTP API with run
// history and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campuslib/mvol-validate/internal/api"
	"github.com/campuslib/mvol-validate/internal/config"
	"github.com/campuslib/mvol-validate/internal/jobs"
	mvlog "github.com/campuslib/mvol-validate/internal/log"
	"github.com/campuslib/mvol-validate/internal/mvol"
	"github.com/campuslib/mvol-validate/internal/store"
	"github.com/campuslib/mvol-validate/internal/version"
	"github.com/campuslib/mvol-validate/internal/watch"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		boot := mvlog.WithComponent("daemon")
		boot.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Msg("failed to load configuration")
	}

	mvlog.Configure(mvlog.Config{Level: cfg.LogLevel, Service: "mvol-validate"})
	logger := mvlog.WithComponent("daemon")

	if err := config.Validate(cfg); err != nil {
		logger.Fatal().Err(err).Str("event", "config.invalid").Msg("invalid configuration")
	}
	chunk, err := mvol.ParseChunk(cfg.Chunk)
	if err != nil {
		logger.Fatal().Err(err).Str("event", "config.invalid").Msg("invalid chunk")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().Err(err).Str("event", "datadir.create_failed").Msg("cannot create data directory")
	}

	history, err := store.NewStore(filepath.Join(cfg.DataDir, "history.db"))
	if err != nil {
		logger.Fatal().Err(err).Str("event", "store.open_failed").Msg("cannot open history store")
	}
	defer func() { _ = history.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The full scan pipeline: validate, persist history, write the report.
	// api.Server.Scan serializes it across origins (timer, watcher, API).
	runScan := func(ctx context.Context) (*jobs.Report, error) {
		report, err := jobs.Scan(ctx, jobs.Options{Root: cfg.Root, Chunk: chunk, Jobs: cfg.Jobs})
		if err != nil {
			return nil, err
		}

		run := store.Run{
			ID:          report.RunID,
			Root:        report.Root,
			Chunk:       report.Chunk,
			StartedAt:   report.StartedAt,
			FinishedAt:  report.FinishedAt,
			Directories: report.Directories,
			Findings:    len(report.Findings),
			Status:      report.Status(),
		}
		if err := history.SaveRun(ctx, run, report.Findings); err != nil {
			logger.Error().Err(err).Str("event", "store.save_failed").Msg("cannot persist run")
		}
		if err := jobs.WriteReport(ctx, filepath.Join(cfg.DataDir, "report.json"), report); err != nil {
			logger.Error().Err(err).Str("event", "report.write_failed").Msg("cannot write report")
		}
		return report, nil
	}

	apiServer := api.NewServer(cfg, history, runScan, version.Version)
	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           apiServer.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Watcher events and the interval timer both funnel into one request
	// channel; a pending request coalesces further triggers.
	scanRequests := make(chan string, 1)
	requestScan := func(reason string) {
		select {
		case scanRequests <- reason:
		default:
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("event", "http.listen").Str("addr", cfg.Listen).Msg("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ScanInterval)
		defer ticker.Stop()

		requestScan("startup")
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				requestScan("interval")
			case reason := <-scanRequests:
				logger.Info().Str("event", "scan.trigger").Str("reason", reason).Msg("scan triggered")
				if _, err := apiServer.Scan(gctx); err != nil && gctx.Err() == nil {
					if errors.Is(err, api.ErrScanInProgress) {
						logger.Debug().Str("event", "scan.skipped").Msg("scan already in progress")
					} else {
						logger.Error().Err(err).Str("event", "scan.failed").Msg("scan failed")
					}
				}
			}
		}
	})

	if cfg.Watch {
		watcher := watch.New(cfg.Root, cfg.WatchDebounce, func() { requestScan("fsnotify") })
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Str("event", "daemon.failed").Msg("daemon exited with error")
	}
	logger.Info().Str("event", "daemon.stopped").Msg("daemon stopped")
}
