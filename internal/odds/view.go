package odds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/esports-edge/internal/models"
)

// missingValue is what scrapers write for a field they could not read.
const missingValue = -1

// NameResolver maps scraped team names onto historical table names.
type NameResolver interface {
	Resolve(name string) string
}

// MatchView is a read-only normalised view of one scraped match.
type MatchView struct {
	raw  RawMatch
	home string
	away string
}

// NewMatchView wraps raw. names may be nil, in which case team names are used
// as scraped.
func NewMatchView(raw RawMatch, names NameResolver) *MatchView {
	v := &MatchView{
		raw:  raw,
		home: strings.TrimSpace(raw.Overview.HomeTeam),
		away: strings.TrimSpace(raw.Overview.AwayTeam),
	}
	if names != nil {
		v.home = names.Resolve(v.home)
		v.away = names.Resolve(v.away)
	}
	return v
}

// HomeTeam returns the corrected home team name.
func (v *MatchView) HomeTeam() string { return v.home }

// AwayTeam returns the corrected away team name.
func (v *MatchView) AwayTeam() string { return v.away }

// League returns the league as scraped.
func (v *MatchView) League() string { return v.raw.Overview.League }

// URL returns the bookmaker page the odds came from.
func (v *MatchView) URL() string { return v.raw.Overview.URL }

// Time returns the scheduled start in UTC.
func (v *MatchView) Time() time.Time { return v.raw.Overview.GameDate.Time }

// Date returns the scheduled start as YYYY-MM-DD in UTC, or "" if unknown.
func (v *MatchView) Date() string {
	if v.raw.Overview.GameDate.IsZero() {
		return ""
	}
	return v.raw.Overview.GameDate.UTC().Format("2006-01-02")
}

// Threshold returns the over/under market for c from the first well-formed
// entry.
func (v *MatchView) Threshold(c models.Category) models.ThresholdMarket {
	entries, ok := v.entries(c)
	if !ok {
		return models.ThresholdMarket{State: models.MarketUnavailable}
	}
	for _, e := range entries {
		if e.TotalAmount.ok() && e.TotalAmount.Value >= 0 && e.HomeTeamScore.isPrice() && e.AwayTeamScore.isPrice() {
			return models.ThresholdMarket{
				State: models.MarketAvailable,
				Line:  e.TotalAmount.Value,
				Over:  e.HomeTeamScore.Value,
				Under: e.AwayTeamScore.Value,
			}
		}
	}
	return models.ThresholdMarket{State: models.MarketMalformed}
}

// Side returns the two-way market for c from the first well-formed entry.
func (v *MatchView) Side(c models.Category) models.SideMarket {
	entries, ok := v.entries(c)
	if !ok {
		return models.SideMarket{State: models.MarketUnavailable}
	}
	for _, e := range entries {
		if e.HomeTeamScore.isPrice() && e.AwayTeamScore.isPrice() {
			return models.SideMarket{
				State: models.MarketAvailable,
				TeamA: e.HomeTeamScore.Value,
				TeamB: e.AwayTeamScore.Value,
			}
		}
	}
	return models.SideMarket{State: models.MarketMalformed}
}

// entries decodes the market list for c. Entries that fail to decode are
// dropped; ok is false when the market is absent or empty.
func (v *MatchView) entries(c models.Category) ([]statEntry, bool) {
	raw, found := v.raw.Markets[c.MarketKey()]
	if !found {
		return nil, false
	}
	items := flatten(raw)
	if len(items) == 0 {
		return nil, false
	}

	out := make([]statEntry, 0, len(items))
	for _, item := range items {
		var e statEntry
		if err := json.Unmarshal(item, &e); err != nil {
			e = statEntry{}
		}
		out = append(out, e)
	}
	return out, true
}

// flatten unwraps nested lists so [[{...}], {...}] yields both objects.
func flatten(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] != '[' {
		return []json.RawMessage{raw}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	var out []json.RawMessage
	for _, item := range list {
		out = append(out, flatten(item)...)
	}
	return out
}

type statEntry struct {
	TotalAmount   flexFloat `json:"total_amount"`
	HomeTeamScore flexFloat `json:"home_team_score"`
	AwayTeamScore flexFloat `json:"away_team_score"`
}

// flexFloat accepts a number, a numeric string, or an object nesting the
// price under "odds", "price" or "value".
type flexFloat struct {
	Value float64
	Set   bool
}

func (f flexFloat) ok() bool {
	return f.Set && f.Value != missingValue
}

func (f flexFloat) isPrice() bool {
	return f.ok() && f.Value > 1
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		f.Value, f.Set = v, true
		return nil
	case '{':
		var nested map[string]flexFloat
		if err := json.Unmarshal(data, &nested); err != nil {
			return err
		}
		for _, key := range []string{"odds", "price", "value"} {
			if n, ok := nested[key]; ok {
				*f = n
				return nil
			}
		}
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	f.Value, f.Set = v, true
	return nil
}
