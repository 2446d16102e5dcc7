package models

import "time"

// HistoricalMatch is one completed game from the historical results table.
type HistoricalMatch struct {
	Date          time.Time
	League        string
	Patch         string
	T1            string
	T2            string
	Totals        map[Category]float64
	FirstDragonT1 bool
	FirstDragonT2 bool
}

// HasTeam reports whether team played either side of the match.
func (m *HistoricalMatch) HasTeam(team string) bool {
	return m.T1 == team || m.T2 == team
}

// Total returns the recorded total for the category.
func (m *HistoricalMatch) Total(c Category) (float64, bool) {
	v, ok := m.Totals[c]
	return v, ok
}

// TookFirstDragon reports whether team secured the first dragon on its side.
func (m *HistoricalMatch) TookFirstDragon(team string) bool {
	switch team {
	case m.T1:
		return m.FirstDragonT1
	case m.T2:
		return m.FirstDragonT2
	}
	return false
}
