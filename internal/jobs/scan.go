// SPDX-License-Identifier: MIT

// Package jobs orchestrates validation scans over a publication tree.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campuslib/mvol-validate/internal/log"
	"github.com/campuslib/mvol-validate/internal/metrics"
	"github.com/campuslib/mvol-validate/internal/mvol"
	"github.com/campuslib/mvol-validate/internal/validate"
)

const (
	defaultJobs = 4
	maxJobs     = 32
)

// Options configures a scan.
type Options struct {
	Root  string
	Chunk mvol.Chunk
	Jobs  int
}

// Report is the result of one scan run.
type Report struct {
	RunID       string             `json:"run_id"`
	Root        string             `json:"root"`
	Chunk       string             `json:"chunk"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Directories int                `json:"directories"`
	Findings    []validate.Finding `json:"findings"`
}

// Status classifies the report outcome.
func (r *Report) Status() string {
	if len(r.Findings) == 0 {
		return "clean"
	}
	return "findings"
}

// FindingsByRule counts findings per rule code.
func (r *Report) FindingsByRule() map[string]int {
	out := make(map[string]int)
	for _, f := range r.Findings {
		out[string(f.Rule)]++
	}
	return out
}

// clampJobs ensures concurrency is within sane bounds [1, maxJobs].
func clampJobs(value int) int {
	if value < 1 {
		return defaultJobs
	}
	if value > maxJobs {
		return maxJobs
	}
	return value
}

// Scan discovers issue directories beneath the chunk and validates them with
// bounded concurrency. The returned error covers discovery failures only;
// per-directory problems are findings in the report.
func Scan(ctx context.Context, opts Options) (*Report, error) {
	runID := uuid.NewString()
	ctx = log.ContextWithRunID(ctx, runID)
	logger := log.WithComponentFromContext(ctx, "jobs")

	started := time.Now()
	logger.Info().
		Str("event", "scan.start").
		Str("root", opts.Root).
		Str("chunk", opts.Chunk.String()).
		Msg("starting scan")

	chunks, err := mvol.Discover(opts.Root, opts.Chunk)
	if err != nil {
		metrics.IncScan("error")
		return nil, fmt.Errorf("discover issues: %w", err)
	}

	var (
		mu       sync.Mutex
		findings []validate.Finding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clampJobs(opts.Jobs))
	for _, c := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found := ValidateIssue(opts.Root, c)
			if len(found) > 0 {
				mu.Lock()
				findings = append(findings, found...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.IncScan("error")
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Identifier != findings[j].Identifier {
			return findings[i].Identifier < findings[j].Identifier
		}
		if findings[i].Rule != findings[j].Rule {
			return findings[i].Rule < findings[j].Rule
		}
		return findings[i].Path < findings[j].Path
	})

	report := &Report{
		RunID:       runID,
		Root:        opts.Root,
		Chunk:       opts.Chunk.String(),
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Directories: len(chunks),
		Findings:    findings,
	}

	metrics.IncScan(report.Status())
	metrics.ObserveScanDuration(report.FinishedAt.Sub(report.StartedAt))
	metrics.RecordDirectories(report.Directories)
	metrics.RecordFindings(report.FindingsByRule())

	logger.Info().
		Str("event", "scan.complete").
		Int("directories", report.Directories).
		Int("findings", len(findings)).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("scan complete")

	return report, nil
}
