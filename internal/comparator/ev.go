package comparator

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ExpectedValue returns the expected profit of a one unit stake at decimal
// odds with win probability p: p*(odds-1) - (1-p).
func ExpectedValue(p, odds float64) decimal.Decimal {
	return expectedValue(decimal.NewFromFloat(p), decimal.NewFromFloat(odds))
}

// ExpectedROI is ExpectedValue expressed as a percentage.
func ExpectedROI(p, odds float64) decimal.Decimal {
	return ExpectedValue(p, odds).Mul(hundred)
}

// FairOdds returns 1/p, or +Inf when p is not positive.
func FairOdds(p float64) float64 {
	if p <= 0 || math.IsNaN(p) {
		return math.Inf(1)
	}
	return 1 / p
}

func expectedValue(p, odds decimal.Decimal) decimal.Decimal {
	return p.Mul(odds.Sub(one)).Sub(one.Sub(p))
}

func fairOdds(p decimal.Decimal) float64 {
	if !p.IsPositive() {
		return math.Inf(1)
	}
	return one.Div(p).InexactFloat64()
}
