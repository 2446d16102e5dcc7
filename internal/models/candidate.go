package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// BetSide is the side of a market a candidate backs.
type BetSide string

const (
	BetSideOver        BetSide = "over"
	BetSideUnder       BetSide = "under"
	BetSideFirstDragon BetSide = "FD"
)

// BetStatus represents the grading status of a ledger row
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWin     BetStatus = "win"
	BetStatusLoss    BetStatus = "loss"
)

// BetCandidate is a positive expected value bet found for one match and category.
type BetCandidate struct {
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	League      string          `json:"league"`
	T1          string          `json:"t1" validate:"required"`
	T2          string          `json:"t2" validate:"required"`
	Category    Category        `json:"category"`
	Side        BetSide         `json:"bet_type" validate:"required,oneof=over under FD"`
	Line        string          `json:"line"`
	Probability float64         `json:"probability" validate:"gte=0,lte=1"`
	FairOdds    float64         `json:"fair_odds"`
	Odds        float64         `json:"odds" validate:"gt=1"`
	ROI         decimal.Decimal `json:"roi"`
	House       string          `json:"house"`
	URL         string          `json:"url"`
	Status      BetStatus       `json:"status"`
}

// BetLine returns the ledger bet_line, e.g. "total_dragons 4.5" or
// "first_dragon T1".
func (c *BetCandidate) BetLine() string {
	return c.Category.String() + " " + c.Line
}

// ROIString formats ROI the way the ledger stores it, e.g. "3.13%".
func (c *BetCandidate) ROIString() string {
	return c.ROI.StringFixed(2) + "%"
}

// FairOddsString formats fair odds with two decimals; unbounded fair odds are "inf".
func (c *BetCandidate) FairOddsString() string {
	if math.IsInf(c.FairOdds, 0) || math.IsNaN(c.FairOdds) {
		return "inf"
	}
	return decimal.NewFromFloat(c.FairOdds).StringFixed(2)
}

// OddsString formats the offered price.
func (c *BetCandidate) OddsString() string {
	return strconv.FormatFloat(c.Odds, 'f', -1, 64)
}

// Key returns the identity used to deduplicate ledger rows.
func (c *BetCandidate) Key() string {
	return IdentityKey(c.Date, c.T1, c.T2, string(c.Side), c.BetLine(), c.House)
}

// keySep is the ASCII unit separator; it cannot appear in scraped names.
const keySep = "\x1f"

// IdentityKey joins the fields that identify a ledger row.
func IdentityKey(date, t1, t2, betType, betLine, house string) string {
	return strings.Join([]string{date, t1, t2, betType, betLine, house}, keySep)
}

// FormatLine renders a threshold line without trailing zeros.
func FormatLine(line float64) string {
	return strconv.FormatFloat(line, 'f', -1, 64)
}
