// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for ledger changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogCandidateRecorded logs a new bet written to the ledger.
func (al *AuditLogger) LogCandidateRecorded(key, betType, betLine, roi, fairOdds, odds string) {
	al.WithFields(logrus.Fields{
		"key":       key,
		"bet_type":  betType,
		"bet_line":  betLine,
		"roi":       roi,
		"fair_odds": fairOdds,
		"odds":      odds,
	}).Info("Bet candidate recorded")
}

// LogDuplicateSkipped logs a candidate already present in the ledger.
func (al *AuditLogger) LogDuplicateSkipped(key string) {
	al.WithField("key", key).Debug("Duplicate bet candidate skipped")
}

// LogPendingPurged logs a stale pending row removed from the ledger.
func (al *AuditLogger) LogPendingPurged(key, date string, retentionDays int) {
	al.WithFields(logrus.Fields{
		"key":            key,
		"date":           date,
		"retention_days": retentionDays,
	}).Info("Stale pending bet purged")
}
