package models

// MarketState distinguishes an absent market from one that was offered but
// could not be read.
type MarketState int

const (
	MarketUnavailable MarketState = iota
	MarketAvailable
	MarketMalformed
)

func (s MarketState) String() string {
	switch s {
	case MarketAvailable:
		return "available"
	case MarketMalformed:
		return "malformed"
	default:
		return "unavailable"
	}
}

// ThresholdMarket is an over/under market on a match total.
type ThresholdMarket struct {
	State MarketState
	Line  float64
	Over  float64
	Under float64
}

// Err maps the market state to the error callers should report.
func (m ThresholdMarket) Err() error {
	return stateErr(m.State)
}

// SideMarket is a two-way market between the home (A) and away (B) team.
type SideMarket struct {
	State MarketState
	TeamA float64
	TeamB float64
}

// Err maps the market state to the error callers should report.
func (m SideMarket) Err() error {
	return stateErr(m.State)
}

func stateErr(s MarketState) error {
	switch s {
	case MarketAvailable:
		return nil
	case MarketMalformed:
		return ErrMalformedMarket
	default:
		return ErrNoMarket
	}
}
