// Package odds reads scraped bookmaker snapshots and normalises each match's
// markets into threshold and side records.
package odds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPattern matches the scraper output files, e.g. games_Bet365Webscraper.json.
	DefaultPattern = "games_*.json"

	filePrefix = "games_"
	fileSuffix = "Webscraper.json"
)

// Snapshot is one bookmaker's scrape cycle. Matches that could not be decoded
// are listed in Rejected and left out of Matches.
type Snapshot struct {
	Path     string
	House    string
	Matches  []RawMatch
	Rejected []*MatchError
}

// MatchError reports a match entry that could not be decoded.
type MatchError struct {
	Index int
	Err   error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("match %d: %v", e.Index, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

// Overview identifies the match a set of markets belongs to.
type Overview struct {
	GameDate Timestamp `json:"game_date"`
	URL      string    `json:"url"`
	League   string    `json:"league"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// RawMatch is a scraped match: the overview plus every market keyed by name,
// kept undecoded so one bad market cannot spoil the rest.
type RawMatch struct {
	Overview Overview
	Markets  map[string]json.RawMessage
}

// UnmarshalJSON splits the overview block from the market lists.
func (m *RawMatch) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields["overview"]
	if !ok {
		return fmt.Errorf("match has no overview")
	}
	if err := json.Unmarshal(raw, &m.Overview); err != nil {
		return fmt.Errorf("overview: %w", err)
	}
	delete(fields, "overview")
	m.Markets = fields
	return nil
}

// Timestamp accepts unix seconds or an ISO date / date-time string.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return t.parseString(s)
	}
	secs, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid game_date %s: %w", data, err)
	}
	whole, frac := math.Modf(secs)
	t.Time = time.Unix(int64(whole), int64(frac*1e9)).UTC()
	return nil
}

func (t *Timestamp) parseString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		t.Time = time.Unix(int64(secs), 0).UTC()
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid game_date %q", s)
}

// LoadSnapshot decodes a snapshot file. The bookmaker is taken from the file
// name. Only an unreadable file or one that is not a JSON list fails; each
// match is decoded on its own.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}

	snap := &Snapshot{
		Path:    path,
		House:   HouseFromPath(path),
		Matches: make([]RawMatch, 0, len(entries)),
	}
	for i, entry := range entries {
		var m RawMatch
		if err := json.Unmarshal(entry, &m); err != nil {
			snap.Rejected = append(snap.Rejected, &MatchError{Index: i, Err: err})
			continue
		}
		snap.Matches = append(snap.Matches, m)
	}
	return snap, nil
}

// HouseFromPath derives the bookmaker from a scraper file name:
// games_Bet365Webscraper.json -> Bet365.
func HouseFromPath(path string) string {
	base := filepath.Base(path)
	if strings.HasPrefix(base, filePrefix) && strings.HasSuffix(base, fileSuffix) {
		return strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), fileSuffix)
	}
	return strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), filepath.Ext(base))
}

// Discover returns every file under dir whose base name matches pattern, in
// lexical path order.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid snapshot pattern %q: %w", pattern, err)
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
