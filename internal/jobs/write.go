// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/renameio/v2"

	"github.com/campuslib/mvol-validate/internal/log"
	"github.com/campuslib/mvol-validate/internal/metrics"
)

// WriteReport writes the report as JSON with atomic + durable semantics:
// renameio fsyncs a temp file and renames it into place, so a crashed write
// never leaves a truncated report behind.
func WriteReport(ctx context.Context, path string, report *Report) error {
	logger := log.WithComponentFromContext(ctx, "jobs")

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		metrics.IncReportWriteError()
		return fmt.Errorf("create pending report file: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending report file")
		}
	}()

	enc := json.NewEncoder(pending)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		metrics.IncReportWriteError()
		return fmt.Errorf("encode report: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		metrics.IncReportWriteError()
		return fmt.Errorf("atomically replace report file: %w", err)
	}

	logger.Info().
		Str("event", "report.write").
		Str("path", path).
		Int("findings", len(report.Findings)).
		Msg("report written")
	return nil
}
