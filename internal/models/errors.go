package models

import (
	"errors"
	"fmt"
	"strings"
)

// Custom errors
var (
	ErrDataUnavailable     = errors.New("historical data unavailable")
	ErrNoMarket            = errors.New("no market available")
	ErrMalformedMarket     = errors.New("market has no well-formed entry")
	ErrNoData              = errors.New("no historical data for category")
	ErrNoBet               = errors.New("no positive expected value")
	ErrUnsupportedCategory = errors.New("unsupported category")
)

// SchemaError reports a historical table that is missing required columns or
// holds an invalid row.
type SchemaError struct {
	Missing []string
	Row     int
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return "historical table is missing required columns: " + strings.Join(e.Missing, ", ")
	}
	return fmt.Sprintf("historical table row %d: %s", e.Row, e.Reason)
}

// TeamNameError is returned when a team does not appear in the historical table.
type TeamNameError struct {
	Team string
}

func (e *TeamNameError) Error() string {
	return fmt.Sprintf("team %q not found in historical data", e.Team)
}
