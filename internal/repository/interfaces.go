package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/esports-edge/internal/ledger"
	"github.com/yourusername/esports-edge/internal/models"
)

// Querier is the subset of *database.DB the repositories use.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// CandidateRepository defines the interface for mirrored bet candidates
type CandidateRepository interface {
	InsertBatch(ctx context.Context, candidates []*models.BetCandidate) (int64, error)
	DeleteByKeys(ctx context.Context, keys []string) (int64, error)
	ListPending(ctx context.Context) ([]ledger.Row, error)
}
