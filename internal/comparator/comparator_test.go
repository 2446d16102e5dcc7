package comparator

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/esports-edge/internal/models"
)

type fakeForm struct {
	team     string
	over     map[models.Category]float64
	overErr  error
	fdRate   float64
	fdErr    error
	panicked bool
}

func (f *fakeForm) Team() string { return f.team }

func (f *fakeForm) OverThreshold(c models.Category, _ float64) (float64, error) {
	if f.panicked {
		panic("boom")
	}
	if f.overErr != nil {
		return 0, f.overErr
	}
	v, ok := f.over[c]
	if !ok {
		return 0, models.ErrNoData
	}
	return v, nil
}

func (f *fakeForm) FirstDragonRate() (float64, error) {
	return f.fdRate, f.fdErr
}

type fakeMarkets struct {
	threshold map[models.Category]models.ThresholdMarket
	side      map[models.Category]models.SideMarket
}

func (m *fakeMarkets) HomeTeam() string { return "Alpha" }
func (m *fakeMarkets) AwayTeam() string { return "Beta" }
func (m *fakeMarkets) League() string   { return "LEC" }
func (m *fakeMarkets) URL() string      { return "https://example.com/match" }
func (m *fakeMarkets) Date() string     { return "2024-03-02" }

func (m *fakeMarkets) Threshold(c models.Category) models.ThresholdMarket {
	return m.threshold[c]
}

func (m *fakeMarkets) Side(c models.Category) models.SideMarket {
	return m.side[c]
}

func available(line, over, under float64) models.ThresholdMarket {
	return models.ThresholdMarket{State: models.MarketAvailable, Line: line, Over: over, Under: under}
}

func TestExpectedValue(t *testing.T) {
	assert.True(t, ExpectedValue(0.5, 2.0).IsZero())
	assert.True(t, decimal.RequireFromString("0.2").Equal(ExpectedValue(0.6, 2.0)))
	assert.True(t, decimal.RequireFromString("20").Equal(ExpectedROI(0.6, 2.0)))
	assert.True(t, decimal.RequireFromString("-1").Equal(ExpectedValue(0, 3.0)))
}

func TestFairOdds(t *testing.T) {
	assert.Equal(t, 4.0, FairOdds(0.25))
	assert.True(t, math.IsInf(FairOdds(0), 1))
	assert.True(t, math.IsInf(FairOdds(-0.1), 1))
}

func TestCompareThresholdScenario(t *testing.T) {
	markets := &fakeMarkets{threshold: map[models.Category]models.ThresholdMarket{
		models.CategoryDragons: available(4.5, 2.20, 1.65),
	}}
	alpha := &fakeForm{team: "Alpha", over: map[models.Category]float64{models.CategoryDragons: 25}}
	beta := &fakeForm{team: "Beta", over: map[models.Category]float64{models.CategoryDragons: 50}}

	cand, err := New(markets, alpha, beta, "Bet365").Compare(models.CategoryDragons)
	require.NoError(t, err)
	require.NotNil(t, cand)

	assert.Equal(t, models.BetSideUnder, cand.Side)
	assert.Equal(t, "4.5", cand.Line)
	assert.Equal(t, "total_dragons 4.5", cand.BetLine())
	assert.Equal(t, "3.13%", cand.ROIString())
	assert.Equal(t, "1.60", cand.FairOddsString())
	assert.InDelta(t, 0.625, cand.Probability, 1e-12)
	assert.Equal(t, 1.65, cand.Odds)
	assert.Equal(t, models.BetStatusPending, cand.Status)
	assert.Equal(t, "Bet365", cand.House)
	assert.Equal(t, "Alpha", cand.T1)
	assert.Equal(t, "2024-03-02", cand.Date)
}

func TestCompareThresholdPicksOver(t *testing.T) {
	markets := &fakeMarkets{threshold: map[models.Category]models.ThresholdMarket{
		models.CategoryTowers: available(11.5, 1.9, 1.9),
	}}
	home := &fakeForm{team: "Alpha", over: map[models.Category]float64{models.CategoryTowers: 70}}
	away := &fakeForm{team: "Beta", over: map[models.Category]float64{models.CategoryTowers: 60}}

	cand, err := New(markets, home, away, "Pinnacle").Compare(models.CategoryTowers)
	require.NoError(t, err)
	assert.Equal(t, models.BetSideOver, cand.Side)
	assert.True(t, decimal.RequireFromString("23.5").Equal(cand.ROI))
}

func TestCompareTieGoesToOver(t *testing.T) {
	markets := &fakeMarkets{threshold: map[models.Category]models.ThresholdMarket{
		models.CategoryKills: available(27.5, 2.5, 2.5),
	}}
	home := &fakeForm{team: "Alpha", over: map[models.Category]float64{models.CategoryKills: 50}}
	away := &fakeForm{team: "Beta", over: map[models.Category]float64{models.CategoryKills: 50}}

	cand, err := New(markets, home, away, "Pinnacle").Compare(models.CategoryKills)
	require.NoError(t, err)
	assert.Equal(t, models.BetSideOver, cand.Side)
}

func TestCompareNoBet(t *testing.T) {
	home := &fakeForm{team: "Alpha", over: map[models.Category]float64{models.CategoryDragons: 50}}
	away := &fakeForm{team: "Beta", over: map[models.Category]float64{models.CategoryDragons: 50}}

	tests := []struct {
		name    string
		market  models.ThresholdMarket
		wantErr error
	}{
		{name: "unavailable", market: models.ThresholdMarket{}, wantErr: models.ErrNoMarket},
		{name: "malformed", market: models.ThresholdMarket{State: models.MarketMalformed}, wantErr: models.ErrMalformedMarket},
		{name: "zero ev", market: available(4.5, 2.0, 2.0), wantErr: models.ErrNoBet},
		{name: "negative ev", market: available(4.5, 1.8, 1.8), wantErr: models.ErrNoBet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markets := &fakeMarkets{threshold: map[models.Category]models.ThresholdMarket{models.CategoryDragons: tt.market}}
			cand, err := New(markets, home, away, "Bet365").Compare(models.CategoryDragons)
			assert.Nil(t, cand)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestCompareMissingColumnOnlyAffectsCategory(t *testing.T) {
	markets := &fakeMarkets{threshold: map[models.Category]models.ThresholdMarket{
		models.CategoryInhibitors: available(1.5, 1.9, 1.9),
		models.CategoryDragons:    available(4.5, 2.20, 1.65),
	}}
	home := &fakeForm{team: "Alpha", over: map[models.Category]float64{models.CategoryDragons: 25}}
	away := &fakeForm{team: "Beta", over: map[models.Category]float64{models.CategoryDragons: 50}}

	results := New(markets, home, away, "Bet365").CompareAll([]models.Category{models.CategoryInhibitors, models.CategoryDragons})
	require.Len(t, results, 2)

	assert.Nil(t, results[0].Candidate)
	assert.True(t, errors.Is(results[0].Err, models.ErrNoData))
	require.NotNil(t, results[1].Candidate)
	assert.NoError(t, results[1].Err)
}

func TestComparePanicIsContained(t *testing.T) {
	markets := &fakeMarkets{threshold: map[models.Category]models.ThresholdMarket{
		models.CategoryDragons: available(4.5, 2.0, 2.0),
	}}
	home := &fakeForm{team: "Alpha", panicked: true}
	away := &fakeForm{team: "Beta"}

	var cand *models.BetCandidate
	var err error
	assert.NotPanics(t, func() {
		cand, err = New(markets, home, away, "Bet365").Compare(models.CategoryDragons)
	})
	assert.Nil(t, cand)
	assert.Error(t, err)
}

func TestCompareFirstDragon(t *testing.T) {
	markets := &fakeMarkets{side: map[models.Category]models.SideMarket{
		models.CategoryFirstDragon: {State: models.MarketAvailable, TeamA: 1.8, TeamB: 2.1},
	}}

	t.Run("away side has more value", func(t *testing.T) {
		home := &fakeForm{team: "Alpha", fdRate: 40}
		away := &fakeForm{team: "Beta", fdRate: 60}

		cand, err := New(markets, home, away, "Dafabet").Compare(models.CategoryFirstDragon)
		require.NoError(t, err)
		assert.Equal(t, models.BetSideFirstDragon, cand.Side)
		assert.Equal(t, "first_dragon Beta", cand.BetLine())
		assert.Equal(t, 2.1, cand.Odds)
		assert.True(t, decimal.RequireFromString("26").Equal(cand.ROI))
		assert.Equal(t, "1.67", cand.FairOddsString())
	})

	t.Run("rates are not averaged", func(t *testing.T) {
		home := &fakeForm{team: "Alpha", fdRate: 70}
		away := &fakeForm{team: "Beta", fdRate: 70}

		cand, err := New(markets, home, away, "Dafabet").Compare(models.CategoryFirstDragon)
		require.NoError(t, err)
		assert.Equal(t, "Beta", cand.Line)
		assert.True(t, decimal.RequireFromString("47").Equal(cand.ROI))
	})

	t.Run("no value on either side", func(t *testing.T) {
		home := &fakeForm{team: "Alpha", fdRate: 30}
		away := &fakeForm{team: "Beta", fdRate: 30}

		_, err := New(markets, home, away, "Dafabet").Compare(models.CategoryFirstDragon)
		assert.True(t, errors.Is(err, models.ErrNoBet))
	})

	t.Run("missing flag columns", func(t *testing.T) {
		home := &fakeForm{team: "Alpha", fdErr: models.ErrNoData}
		away := &fakeForm{team: "Beta", fdErr: models.ErrNoData}

		_, err := New(markets, home, away, "Dafabet").Compare(models.CategoryFirstDragon)
		assert.True(t, errors.Is(err, models.ErrNoData))
	})
}
