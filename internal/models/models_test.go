package models

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"total_dragons", CategoryDragons, false},
		{" Total_Towers ", CategoryTowers, false},
		{"game_duration", CategoryGameLength, false},
		{"first_dragon", CategoryFirstDragon, false},
		{"total_wards", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnsupportedCategory))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryProperties(t *testing.T) {
	assert.Equal(t, "gamelength", CategoryGameLength.Column())
	assert.Equal(t, "", CategoryFirstDragon.Column())
	assert.True(t, CategoryFirstDragon.IsSideMarket())
	assert.False(t, Category(99).Valid())
	assert.Equal(t, "category(99)", Category(99).String())

	thresholds := ThresholdCategories()
	assert.Len(t, thresholds, len(AllCategories())-1)
	assert.NotContains(t, thresholds, CategoryFirstDragon)
}

func TestBetCandidateFormatting(t *testing.T) {
	c := &BetCandidate{
		Date:     "2023-11-14",
		T1:       "Alpha",
		T2:       "Beta",
		Category: CategoryDragons,
		Side:     BetSideUnder,
		Line:     FormatLine(4.5),
		FairOdds: 1.6,
		Odds:     1.65,
		ROI:      decimal.NewFromFloat(3.125),
		House:    "Bet365",
	}

	assert.Equal(t, "total_dragons 4.5", c.BetLine())
	assert.Equal(t, "3.13%", c.ROIString())
	assert.Equal(t, "1.60", c.FairOddsString())
	assert.Equal(t, "1.65", c.OddsString())
	assert.Equal(t, "2023-11-14\x1fAlpha\x1fBeta\x1funder\x1ftotal_dragons 4.5\x1fBet365", c.Key())

	c.FairOdds = math.Inf(1)
	assert.Equal(t, "inf", c.FairOddsString())
}

func TestIdentityKeyKeepsFieldsApart(t *testing.T) {
	a := IdentityKey("2024-03-02", "Team-A", "B", "over", "total_kills 28.5", "Bet365")
	b := IdentityKey("2024-03-02", "Team", "A-B", "over", "total_kills 28.5", "Bet365")
	assert.NotEqual(t, a, b)
}

func TestMarketErr(t *testing.T) {
	assert.NoError(t, ThresholdMarket{State: MarketAvailable}.Err())
	assert.ErrorIs(t, ThresholdMarket{}.Err(), ErrNoMarket)
	assert.ErrorIs(t, SideMarket{State: MarketMalformed}.Err(), ErrMalformedMarket)
	assert.Equal(t, "malformed", MarketMalformed.String())
}

func TestErrorMessages(t *testing.T) {
	err := &SchemaError{Missing: []string{"teamname", "date"}}
	assert.Contains(t, err.Error(), "teamname, date")

	err = &SchemaError{Row: 3, Reason: "bad date"}
	assert.Equal(t, "historical table row 3: bad date", err.Error())

	assert.Contains(t, (&TeamNameError{Team: "Nobody"}).Error(), `"Nobody"`)
}
