package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/esports-edge/internal/selector"
)

// Mirror keeps the SQL table in step with the CSV ledger after each run.
type Mirror struct {
	candidates CandidateRepository
	logger     *logrus.Entry
}

// NewMirror creates a selector sink backed by repo.
func NewMirror(repo CandidateRepository, logger *logrus.Logger) *Mirror {
	return &Mirror{
		candidates: repo,
		logger:     logger.WithField("component", "mirror"),
	}
}

// Name implements selector.Sink.
func (m *Mirror) Name() string {
	return "postgres"
}

// Publish inserts the run's new candidates and deletes its purged rows.
func (m *Mirror) Publish(ctx context.Context, result *selector.RunResult) error {
	inserted, err := m.candidates.InsertBatch(ctx, result.New)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(result.Purged))
	for i := range result.Purged {
		keys = append(keys, result.Purged[i].Key())
	}
	deleted, err := m.candidates.DeleteByKeys(ctx, keys)
	if err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"run_id":   result.RunID,
		"inserted": inserted,
		"deleted":  deleted,
	}).Info("Ledger mirrored to database")
	return nil
}
