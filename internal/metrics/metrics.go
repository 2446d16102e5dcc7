// Package metrics provides centralized Prometheus metrics registry for the selection engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esports_edge",
		Name:      "runs_total",
		Help:      "Total number of selection runs by status",
	}, []string{"status"})
	SnapshotsProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esports_edge",
		Name:      "snapshots_processed_total",
		Help:      "Total number of odds snapshots processed by bookmaker",
	}, []string{"house"})
	SnapshotFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "esports_edge",
		Name:      "snapshot_failures_total",
		Help:      "Total number of odds snapshots that could not be loaded",
	})
	MatchesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esports_edge",
		Name:      "matches_skipped_total",
		Help:      "Total number of matches skipped before evaluation by reason",
	}, []string{"reason"})
	CandidatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esports_edge",
		Name:      "candidates_total",
		Help:      "Total number of bet candidates by category and outcome",
	}, []string{"category", "outcome"})
	PendingPurgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "esports_edge",
		Name:      "pending_purged_total",
		Help:      "Total number of stale pending bets purged from the ledger",
	})
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esports_edge",
		Name:      "notifications_total",
		Help:      "Total number of bet notifications by status",
	}, []string{"status"})
)

// Gauge metrics
var (
	LedgerRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "esports_edge",
		Name:      "ledger_rows",
		Help:      "Number of rows in the bet ledger after the last run",
	})
	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "esports_edge",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed selection run",
	})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "esports_edge",
		Name:      "run_duration_seconds",
		Help:      "Duration of selection runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	CandidateROI = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "esports_edge",
		Name:      "candidate_roi_percent",
		Help:      "Expected ROI of recorded bet candidates by category",
		Buckets:   []float64{0, 5, 10, 15, 20, 30, 50, 100},
	}, []string{"category"})
)

// Candidate outcomes.
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeBelowROI  = "below_roi"
	OutcomeNoBet     = "no_bet"
	OutcomeError     = "error"
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RunsTotal)
		registry.MustRegister(SnapshotsProcessedTotal)
		registry.MustRegister(SnapshotFailuresTotal)
		registry.MustRegister(MatchesSkippedTotal)
		registry.MustRegister(CandidatesTotal)
		registry.MustRegister(PendingPurgedTotal)
		registry.MustRegister(NotificationsTotal)

		// Register gauge metrics
		registry.MustRegister(LedgerRows)
		registry.MustRegister(LastRunTimestamp)

		// Register histogram metrics
		registry.MustRegister(RunDuration)
		registry.MustRegister(CandidateROI)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRun records a completed selection run.
// status should be one of: "success", "failure"
func RecordRun(status string, durationSeconds float64, ledgerRows int, finishedUnix float64) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(durationSeconds)
	if status == "success" {
		LedgerRows.Set(float64(ledgerRows))
		LastRunTimestamp.Set(finishedUnix)
	}
}

// RecordSnapshotProcessed records a snapshot marked processed.
func RecordSnapshotProcessed(house string) {
	SnapshotsProcessedTotal.WithLabelValues(house).Inc()
}

// RecordSnapshotFailure records a snapshot that failed to load.
func RecordSnapshotFailure() {
	SnapshotFailuresTotal.Inc()
}

// RecordMatchSkipped records a match skipped before evaluation.
func RecordMatchSkipped(reason string) {
	MatchesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordCandidate records the outcome of one category evaluation.
func RecordCandidate(category, outcome string) {
	CandidatesTotal.WithLabelValues(category, outcome).Inc()
}

// RecordCandidateROI records the ROI of a recorded candidate.
func RecordCandidateROI(category string, roi float64) {
	CandidateROI.WithLabelValues(category).Observe(roi)
}

// RecordPendingPurged records purged ledger rows.
func RecordPendingPurged(count int) {
	PendingPurgedTotal.Add(float64(count))
}

// RecordNotification records a notification attempt.
// status should be one of: "sent", "failed"
func RecordNotification(status string) {
	NotificationsTotal.WithLabelValues(status).Inc()
}
