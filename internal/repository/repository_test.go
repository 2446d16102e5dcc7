package repository

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/esports-edge/internal/database"
	"github.com/yourusername/esports-edge/internal/ledger"
	"github.com/yourusername/esports-edge/internal/models"
	"github.com/yourusername/esports-edge/internal/selector"
)

type execCall struct {
	query string
	args  []any
}

// fakeQuerier records Exec calls; keys already seen report zero rows affected.
type fakeQuerier struct {
	calls []execCall
	seen  map[string]bool
	err   error
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{seen: map[string]bool{}}
}

func (f *fakeQuerier) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	f.calls = append(f.calls, execCall{query: query, args: args})
	if len(args) > 1 {
		key := args[1].(string)
		if f.seen[key] {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		f.seen[key] = true
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("DELETE 2"), nil
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func candidate(fair float64) *models.BetCandidate {
	return &models.BetCandidate{
		Date:     "2024-03-02",
		League:   "LEC",
		T1:       "G2 Esports",
		T2:       "Fnatic",
		Category: models.CategoryDragons,
		Side:     models.BetSideUnder,
		Line:     "4.5",
		FairOdds: fair,
		Odds:     1.65,
		ROI:      decimal.RequireFromString("3.125"),
		House:    "Bet365",
		Status:   models.BetStatusPending,
	}
}

func TestInsertBatch(t *testing.T) {
	db := newFakeQuerier()
	repo := NewPostgresCandidateRepository(db)

	n, err := repo.InsertBatch(context.Background(), []*models.BetCandidate{candidate(1.6), candidate(1.6)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.Len(t, db.calls, 2)

	args := db.calls[0].args
	assert.Equal(t, "2024-03-02\x1fG2 Esports\x1fFnatic\x1funder\x1ftotal_dragons 4.5\x1fBet365", args[1])
	assert.Equal(t, "total_dragons 4.5", args[7])
	assert.Equal(t, "3.13", args[8].(decimal.Decimal).String())
	assert.Equal(t, 1.6, *args[9].(*float64))
}

func TestInsertBatchInfiniteFairOdds(t *testing.T) {
	db := newFakeQuerier()
	repo := NewPostgresCandidateRepository(db)

	c := candidate(1.6)
	c.FairOdds = math.Inf(1)
	_, err := repo.InsertBatch(context.Background(), []*models.BetCandidate{c})
	require.NoError(t, err)
	assert.Nil(t, db.calls[0].args[9].(*float64))
}

func TestDeleteByKeys(t *testing.T) {
	db := newFakeQuerier()
	repo := NewPostgresCandidateRepository(db)

	n, err := repo.DeleteByKeys(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, db.calls)

	n, err = repo.DeleteByKeys(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, []string{"a", "b"}, db.calls[0].args[0])
}

func TestInsertBatchError(t *testing.T) {
	db := newFakeQuerier()
	db.err = errors.New("connection refused")

	_, err := NewPostgresCandidateRepository(db).InsertBatch(context.Background(), []*models.BetCandidate{candidate(1.6)})
	assert.ErrorContains(t, err, "connection refused")
}

func TestMirrorPublish(t *testing.T) {
	db := newFakeQuerier()
	log := logrus.New()
	log.SetOutput(io.Discard)

	repos, err := NewRepositories(db)
	require.NoError(t, err)
	mirror := NewMirror(repos.Candidate, log)
	assert.Equal(t, "postgres", mirror.Name())

	result := &selector.RunResult{
		New:    []*models.BetCandidate{candidate(1.6)},
		Purged: []ledger.Row{{Date: "2024-02-01", T1: "A", T2: "B", BetType: "over", BetLine: "total_kills 28.5", House: "Pinnacle"}},
	}
	require.NoError(t, mirror.Publish(context.Background(), result))

	require.Len(t, db.calls, 2)
	assert.Equal(t, []string{"2024-02-01-A-B-over-total_kills 28.5-Pinnacle"}, db.calls[1].args[0])
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestCandidateRepositoryIntegration(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresCandidateRepository(db)
	ctx := context.Background()

	n, err := repo.InsertBatch(ctx, []*models.BetCandidate{candidate(1.6), candidate(1.6)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "3.13%", rows[0].ROI)
}
