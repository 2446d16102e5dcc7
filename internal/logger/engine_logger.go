// Package logger provides selection-engine logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for selection runs.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// WithRun returns a copy of the logger tagged with the given run id.
func (el *EngineLogger) WithRun(runID string) *EngineLogger {
	return &EngineLogger{Entry: el.WithField("run_id", runID)}
}

// LogRunStarted logs the start of a selection run.
func (el *EngineLogger) LogRunStarted(dataDir string, snapshots, alreadyProcessed int) {
	el.WithFields(logrus.Fields{
		"data_dir":          dataDir,
		"snapshots_found":   snapshots,
		"already_processed": alreadyProcessed,
	}).Info("Selection run started")
}

// LogSnapshotFailed logs a snapshot that could not be read.
func (el *EngineLogger) LogSnapshotFailed(path string, err error) {
	el.WithFields(logrus.Fields{
		"snapshot": path,
		"error":    err.Error(),
	}).Warn("Snapshot could not be loaded, will retry next run")
}

// LogMatchSkipped logs a match dropped before evaluation.
func (el *EngineLogger) LogMatchSkipped(house, home, away, reason string) {
	el.WithFields(logrus.Fields{
		"house":  house,
		"home":   home,
		"away":   away,
		"reason": reason,
	}).Warn("Match skipped")
}

// LogMatchRejected logs a match entry in a snapshot that could not be decoded.
func (el *EngineLogger) LogMatchRejected(path string, index int, err error) {
	el.WithFields(logrus.Fields{
		"snapshot": path,
		"index":    index,
		"reason":   err.Error(),
	}).Warn("Malformed match skipped")
}

// LogCategorySkipped logs a category that produced no candidate.
func (el *EngineLogger) LogCategorySkipped(home, away, category string, err error) {
	el.WithFields(logrus.Fields{
		"home":     home,
		"away":     away,
		"category": category,
		"reason":   err.Error(),
	}).Debug("Category skipped")
}

// LogSnapshotProcessed logs a completed snapshot.
func (el *EngineLogger) LogSnapshotProcessed(path, house string, matches, candidates int) {
	el.WithFields(logrus.Fields{
		"snapshot":   path,
		"house":      house,
		"matches":    matches,
		"candidates": candidates,
	}).Info("Snapshot processed")
}

// LogRunCompleted logs the summary of a selection run.
func (el *EngineLogger) LogRunCompleted(newBets, purged, filesProcessed, filesFailed int, duration time.Duration) {
	el.WithFields(logrus.Fields{
		"new_bets":        newBets,
		"purged":          purged,
		"files_processed": filesProcessed,
		"files_failed":    filesFailed,
		"duration_ms":     duration.Milliseconds(),
	}).Info("Selection run completed")
}
