// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the validator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mvol_scans_total",
		Help: "Total number of scan runs by outcome",
	}, []string{"outcome"}) // outcome=clean|findings|error

	scanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mvol_scan_duration_seconds",
		Help:    "Time spent scanning the publication tree",
		Buckets: prometheus.DefBuckets,
	})

	directoriesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mvol_directories_scanned",
		Help: "Issue directories examined in the last scan",
	})

	findingsByRule = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mvol_findings",
		Help: "Findings in the last scan by rule",
	}, []string{"rule"})

	watchEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mvol_watch_events_total",
		Help: "Filesystem events that triggered a rescan",
	})

	reportWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mvol_report_write_errors_total",
		Help: "Total number of report write failures",
	})
)

func IncScan(outcome string) { scansTotal.WithLabelValues(outcome).Inc() }

func ObserveScanDuration(d time.Duration) { scanDurationSeconds.Observe(d.Seconds()) }

func RecordDirectories(n int) { directoriesScanned.Set(float64(n)) }

func IncWatchEvent() { watchEventsTotal.Inc() }

func IncReportWriteError() { reportWriteErrors.Inc() }

// RecordFindings resets the per-rule gauge to the counts of the last scan.
func RecordFindings(byRule map[string]int) {
	findingsByRule.Reset()
	for rule, n := range byRule {
		findingsByRule.WithLabelValues(rule).Set(float64(n))
	}
}
