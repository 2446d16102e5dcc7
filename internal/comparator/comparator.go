// Package comparator turns both teams' form and one match's markets into a
// positive expected value bet per category.
package comparator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/esports-edge/internal/models"
)

// TeamForm is one team's empirical rates over its recency window.
type TeamForm interface {
	Team() string
	OverThreshold(c models.Category, threshold float64) (float64, error)
	FirstDragonRate() (float64, error)
}

// Markets is the normalised odds for one match.
type Markets interface {
	HomeTeam() string
	AwayTeam() string
	League() string
	URL() string
	Date() string
	Threshold(c models.Category) models.ThresholdMarket
	Side(c models.Category) models.SideMarket
}

// Result is the outcome of comparing one category.
type Result struct {
	Category  models.Category
	Candidate *models.BetCandidate
	Err       error
}

// Comparator compares one match's markets against both teams' form.
type Comparator struct {
	markets Markets
	home    TeamForm
	away    TeamForm
	house   string
}

// New creates a comparator for a match offered by house.
func New(markets Markets, home, away TeamForm, house string) *Comparator {
	return &Comparator{
		markets: markets,
		home:    home,
		away:    away,
		house:   house,
	}
}

type estimate struct {
	side models.BetSide
	line string
	prob decimal.Decimal
	odds float64
	ev   decimal.Decimal
}

func newEstimate(side models.BetSide, line string, prob decimal.Decimal, odds float64) estimate {
	return estimate{
		side: side,
		line: line,
		prob: prob,
		odds: odds,
		ev:   expectedValue(prob, decimal.NewFromFloat(odds)),
	}
}

// Compare evaluates one category. A nil candidate always comes with a non-nil
// error saying why there is no bet; errors never escape as panics.
func (c *Comparator) Compare(cat models.Category) (cand *models.BetCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			cand = nil
			err = fmt.Errorf("comparing %s: %v", cat, r)
		}
	}()

	var best estimate
	switch {
	case !cat.Valid():
		return nil, fmt.Errorf("%w: %d", models.ErrUnsupportedCategory, int(cat))
	case cat.IsSideMarket():
		best, err = c.compareSides(cat)
	default:
		best, err = c.compareThreshold(cat)
	}
	if err != nil {
		return nil, err
	}

	if !best.ev.IsPositive() {
		return nil, fmt.Errorf("%w: %s %s", models.ErrNoBet, cat, best.side)
	}
	fair := fairOdds(best.prob)
	if math.IsInf(fair, 0) {
		return nil, fmt.Errorf("%w: %s has zero probability", models.ErrNoBet, cat)
	}

	return &models.BetCandidate{
		Date:        c.markets.Date(),
		League:      c.markets.League(),
		T1:          c.markets.HomeTeam(),
		T2:          c.markets.AwayTeam(),
		Category:    cat,
		Side:        best.side,
		Line:        best.line,
		Probability: best.prob.InexactFloat64(),
		FairOdds:    fair,
		Odds:        best.odds,
		ROI:         best.ev.Mul(hundred),
		House:       c.house,
		URL:         c.markets.URL(),
		Status:      models.BetStatusPending,
	}, nil
}

// CompareAll evaluates every category in order.
func (c *Comparator) CompareAll(categories []models.Category) []Result {
	results := make([]Result, 0, len(categories))
	for _, cat := range categories {
		cand, err := c.Compare(cat)
		results = append(results, Result{Category: cat, Candidate: cand, Err: err})
	}
	return results
}

// compareThreshold averages both teams' over rates into one match probability
// and picks the better of over and under. Ties go to over.
func (c *Comparator) compareThreshold(cat models.Category) (estimate, error) {
	market := c.markets.Threshold(cat)
	if err := market.Err(); err != nil {
		return estimate{}, fmt.Errorf("%s: %w", cat, err)
	}

	homeRate, err := c.home.OverThreshold(cat, market.Line)
	if err != nil {
		return estimate{}, fmt.Errorf("%s: %w", c.home.Team(), err)
	}
	awayRate, err := c.away.OverThreshold(cat, market.Line)
	if err != nil {
		return estimate{}, fmt.Errorf("%s: %w", c.away.Team(), err)
	}

	p := decimal.NewFromFloat(homeRate).Add(decimal.NewFromFloat(awayRate)).Div(decimal.NewFromInt(200))
	line := models.FormatLine(market.Line)

	over := newEstimate(models.BetSideOver, line, p, market.Over)
	under := newEstimate(models.BetSideUnder, line, one.Sub(p), market.Under)
	if under.ev.GreaterThan(over.ev) {
		return under, nil
	}
	return over, nil
}

// compareSides prices a two-way race between the two teams using each team's
// own rate. Ties go to the home team.
func (c *Comparator) compareSides(cat models.Category) (estimate, error) {
	if cat != models.CategoryFirstDragon {
		return estimate{}, fmt.Errorf("%w: %s", models.ErrUnsupportedCategory, cat)
	}
	market := c.markets.Side(cat)
	if err := market.Err(); err != nil {
		return estimate{}, fmt.Errorf("%s: %w", cat, err)
	}

	homeRate, err := c.home.FirstDragonRate()
	if err != nil {
		return estimate{}, fmt.Errorf("%s: %w", c.home.Team(), err)
	}
	awayRate, err := c.away.FirstDragonRate()
	if err != nil {
		return estimate{}, fmt.Errorf("%s: %w", c.away.Team(), err)
	}

	home := newEstimate(models.BetSideFirstDragon, c.markets.HomeTeam(), decimal.NewFromFloat(homeRate).Div(hundred), market.TeamA)
	away := newEstimate(models.BetSideFirstDragon, c.markets.AwayTeam(), decimal.NewFromFloat(awayRate).Div(hundred), market.TeamB)
	if away.ev.GreaterThan(home.ev) {
		return away, nil
	}
	return home, nil
}
