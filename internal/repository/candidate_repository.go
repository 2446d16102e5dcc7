package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/yourusername/esports-edge/internal/ledger"
	"github.com/yourusername/esports-edge/internal/models"
)

// PostgresCandidateRepository implements CandidateRepository for PostgreSQL
type PostgresCandidateRepository struct {
	db Querier
}

// NewPostgresCandidateRepository creates a new candidate repository
func NewPostgresCandidateRepository(db Querier) CandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const insertCandidate = `
	INSERT INTO bet_candidates (id, bet_key, match_date, league, t1, t2, bet_type, bet_line,
	                            roi, fair_odds, odds, house, url, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (bet_key) DO NOTHING
`

// InsertBatch inserts candidates, ignoring ones whose key is already present.
// It returns the number of rows actually inserted.
func (r *PostgresCandidateRepository) InsertBatch(ctx context.Context, candidates []*models.BetCandidate) (int64, error) {
	var inserted int64
	for _, c := range candidates {
		var fair *float64
		if !math.IsInf(c.FairOdds, 0) && !math.IsNaN(c.FairOdds) {
			fair = &c.FairOdds
		}

		tag, err := r.db.Exec(ctx, insertCandidate,
			uuid.New(), c.Key(), c.Date, c.League, c.T1, c.T2, string(c.Side), c.BetLine(),
			c.ROI.Round(2), fair, c.Odds, c.House, c.URL, string(c.Status),
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert bet candidate %s: %w", c.Key(), err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// DeleteByKeys removes pending rows by identity key
func (r *PostgresCandidateRepository) DeleteByKeys(ctx context.Context, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx,
		`DELETE FROM bet_candidates WHERE status = 'pending' AND bet_key = ANY($1)`, keys)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bet candidates: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListPending retrieves every pending candidate in ledger format
func (r *PostgresCandidateRepository) ListPending(ctx context.Context) ([]ledger.Row, error) {
	query := `
		SELECT match_date, league, t1, t2, bet_type, bet_line, roi::text || '%',
		       COALESCE(fair_odds::text, 'inf'), odds::text, house, url, status
		FROM bet_candidates
		WHERE status = 'pending'
		ORDER BY created_at, bet_key
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending bet candidates: %w", err)
	}
	defer rows.Close()

	var out []ledger.Row
	for rows.Next() {
		var row ledger.Row
		if err := rows.Scan(
			&row.Date, &row.League, &row.T1, &row.T2, &row.BetType, &row.BetLine,
			&row.ROI, &row.FairOdds, &row.Odds, &row.House, &row.URL, &row.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bet candidate: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bet candidates: %w", err)
	}
	return out, nil
}
