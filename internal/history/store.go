// Package history loads the historical match results table that every team
// statistic is computed from.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/esports-edge/internal/models"
)

const (
	colT1            = "t1"
	colT2            = "t2"
	colLeague        = "league"
	colPatch         = "patch"
	colYear          = "year"
	colDate          = "date"
	colFirstDragonT1 = "firstdragon_t1"
	colFirstDragonT2 = "firstdragon_t2"
)

// requiredColumns must all be present; the patch column may be named "year".
var requiredColumns = []string{
	colT1, colT2, "total_towers", "total_dragons", "total_barons", "total_kills", colLeague,
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Store is the read-only historical match table for one run.
type Store struct {
	source      string
	matches     []models.HistoricalMatch
	teams       map[string]struct{}
	categories  map[models.Category]bool
	firstDragon bool
}

// Load reads the historical table from a CSV file.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrDataUnavailable, path, err)
	}
	defer f.Close()

	return LoadReader(f, path)
}

// LoadReader reads the historical table from r. Any missing required column
// or malformed row fails the whole load.
func LoadReader(r io.Reader, source string) (*Store, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", models.ErrDataUnavailable, source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrDataUnavailable, source, err)
	}

	index := indexHeader(header)
	if err := checkSchema(index); err != nil {
		return nil, err
	}

	s := &Store{
		source:     source,
		teams:      make(map[string]struct{}),
		categories: make(map[models.Category]bool),
	}
	for _, c := range models.ThresholdCategories() {
		if _, ok := index[c.Column()]; ok {
			s.categories[c] = true
		}
	}
	_, hasFD1 := index[colFirstDragonT1]
	_, hasFD2 := index[colFirstDragonT2]
	s.firstDragon = hasFD1 && hasFD2
	s.categories[models.CategoryFirstDragon] = s.firstDragon

	patchCol := colPatch
	if _, ok := index[colPatch]; !ok {
		patchCol = colYear
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrDataUnavailable, source, err)
		}
		if isBlank(record) {
			continue
		}

		match, err := s.parseRow(record, index, patchCol, line)
		if err != nil {
			return nil, err
		}
		s.matches = append(s.matches, match)
		s.teams[match.T1] = struct{}{}
		s.teams[match.T2] = struct{}{}
	}

	if len(s.matches) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", models.ErrDataUnavailable, source)
	}
	return s, nil
}

func (s *Store) parseRow(record []string, index map[string]int, patchCol string, line int) (models.HistoricalMatch, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	m := models.HistoricalMatch{
		T1:     field(colT1),
		T2:     field(colT2),
		League: field(colLeague),
		Patch:  field(patchCol),
		Totals: make(map[models.Category]float64, len(s.categories)),
	}
	if m.T1 == "" || m.T2 == "" {
		return m, &models.SchemaError{Row: line, Reason: "both t1 and t2 are required"}
	}

	if raw := field(colDate); raw != "" {
		m.Date = parseDate(raw)
	}

	for _, c := range models.ThresholdCategories() {
		if !s.categories[c] {
			continue
		}
		raw := field(c.Column())
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return m, &models.SchemaError{Row: line, Reason: fmt.Sprintf("column %s: invalid number %q", c.Column(), raw)}
		}
		m.Totals[c] = v
	}

	if s.firstDragon {
		m.FirstDragonT1 = parseFlag(field(colFirstDragonT1))
		m.FirstDragonT2 = parseFlag(field(colFirstDragonT2))
	}
	return m, nil
}

// Source returns where the table was loaded from.
func (s *Store) Source() string {
	return s.source
}

// Len returns the number of matches in the table.
func (s *Store) Len() int {
	return len(s.matches)
}

// HasTeam reports whether name appears as t1 or t2 in any row. The check is
// case-sensitive.
func (s *Store) HasTeam(name string) bool {
	_, ok := s.teams[name]
	return ok
}

// HasCategory reports whether the table carries the columns for c.
func (s *Store) HasCategory(c models.Category) bool {
	return s.categories[c]
}

// Teams returns every known team name, sorted.
func (s *Store) Teams() []string {
	out := make([]string, 0, len(s.teams))
	for t := range s.teams {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TeamMatches returns the rows team played in, in table order.
func (s *Store) TeamMatches(team string) []models.HistoricalMatch {
	var out []models.HistoricalMatch
	for i := range s.matches {
		if s.matches[i].HasTeam(team) {
			out = append(out, s.matches[i])
		}
	}
	return out
}

func indexHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func checkSchema(index map[string]int) error {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	_, hasPatch := index[colPatch]
	_, hasYear := index[colYear]
	if !hasPatch && !hasYear {
		missing = append(missing, colPatch+"/"+colYear)
	}
	if len(missing) > 0 {
		return &models.SchemaError{Missing: missing}
	}
	return nil
}

func parseDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseFlag(raw string) bool {
	if raw == "" {
		return false
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	v, err := strconv.ParseFloat(raw, 64)
	return err == nil && v >= 1
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
