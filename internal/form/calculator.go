// Package form computes how often a team's recent games cleared a statistical
// line, using a window of the team's latest patches.
package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/esports-edge/internal/models"
)

const (
	DefaultPatchWindow = 3
	DefaultMaxGames    = 20
)

// WindowConfig bounds the recency window: the latest Patches distinct patches,
// capped at MaxGames games.
type WindowConfig struct {
	Patches  int
	MaxGames int
}

// DefaultWindow returns the 3 patch / 20 game window.
func DefaultWindow() WindowConfig {
	return WindowConfig{Patches: DefaultPatchWindow, MaxGames: DefaultMaxGames}
}

func (w WindowConfig) withDefaults() WindowConfig {
	if w.Patches <= 0 {
		w.Patches = DefaultPatchWindow
	}
	if w.MaxGames <= 0 {
		w.MaxGames = DefaultMaxGames
	}
	return w
}

// Source is the view of the historical table the calculator needs.
type Source interface {
	HasTeam(name string) bool
	HasCategory(c models.Category) bool
	TeamMatches(team string) []models.HistoricalMatch
}

// Calculator holds one team's recency window.
type Calculator struct {
	team   string
	source Source
	window []models.HistoricalMatch
}

// NewCalculator builds the window for team. It fails with *models.TeamNameError
// when the team is not in the table; a known team with no games gets an empty
// window instead.
func NewCalculator(team string, source Source, cfg WindowConfig) (*Calculator, error) {
	if !source.HasTeam(team) {
		return nil, &models.TeamNameError{Team: team}
	}
	return &Calculator{
		team:   team,
		source: source,
		window: selectWindow(source.TeamMatches(team), cfg.withDefaults()),
	}, nil
}

// Team returns the team name.
func (c *Calculator) Team() string {
	return c.team
}

// Window returns the games the rates are computed over, oldest first.
func (c *Calculator) Window() []models.HistoricalMatch {
	return c.window
}

// OverThreshold returns the percentage of window games whose total for the
// category exceeded threshold, regardless of side. Games with a blank cell are
// left out of both counts. It returns models.ErrNoData when the table has no
// column for the category, or when no game in a non-empty window recorded it.
func (c *Calculator) OverThreshold(cat models.Category, threshold float64) (float64, error) {
	if cat.IsSideMarket() || !cat.Valid() {
		return 0, fmt.Errorf("%w: %s has no threshold", models.ErrUnsupportedCategory, cat)
	}
	if !c.source.HasCategory(cat) {
		return 0, fmt.Errorf("%w: %s", models.ErrNoData, cat)
	}
	if len(c.window) == 0 {
		return 0, nil
	}

	hits, recorded := 0, 0
	for i := range c.window {
		total, ok := c.window[i].Total(cat)
		if !ok {
			continue
		}
		recorded++
		if total > threshold {
			hits++
		}
	}
	if recorded == 0 {
		return 0, fmt.Errorf("%w: %s not recorded in %s's recent games", models.ErrNoData, cat, c.team)
	}
	return float64(hits) / float64(recorded) * 100, nil
}

// FirstDragonRate returns the percentage of window games in which this team
// took the first dragon.
func (c *Calculator) FirstDragonRate() (float64, error) {
	if !c.source.HasCategory(models.CategoryFirstDragon) {
		return 0, fmt.Errorf("%w: %s", models.ErrNoData, models.CategoryFirstDragon)
	}
	return c.percentage(func(m *models.HistoricalMatch) bool {
		return m.TookFirstDragon(c.team)
	}), nil
}

// percentage is 0 for an empty window.
func (c *Calculator) percentage(cond func(m *models.HistoricalMatch) bool) float64 {
	if len(c.window) == 0 {
		return 0
	}
	hits := 0
	for i := range c.window {
		if cond(&c.window[i]) {
			hits++
		}
	}
	return float64(hits) / float64(len(c.window)) * 100
}

func selectWindow(games []models.HistoricalMatch, cfg WindowConfig) []models.HistoricalMatch {
	if len(games) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var patches []string
	for _, g := range games {
		if _, ok := seen[g.Patch]; !ok {
			seen[g.Patch] = struct{}{}
			patches = append(patches, g.Patch)
		}
	}
	sort.SliceStable(patches, func(i, j int) bool {
		return ComparePatch(patches[i], patches[j]) < 0
	})
	if len(patches) > cfg.Patches {
		patches = patches[len(patches)-cfg.Patches:]
	}
	keep := make(map[string]struct{}, len(patches))
	for _, p := range patches {
		keep[p] = struct{}{}
	}

	window := make([]models.HistoricalMatch, 0, len(games))
	for _, g := range games {
		if _, ok := keep[g.Patch]; ok {
			window = append(window, g)
		}
	}
	if len(window) > cfg.MaxGames {
		window = window[len(window)-cfg.MaxGames:]
	}
	return window
}

// ComparePatch orders patch tags component by component, numerically where
// both components are integers, so "13.2" sorts before "13.10".
func ComparePatch(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		na, errA := strconv.Atoi(pa[i])
		nb, errB := strconv.Atoi(pb[i])
		if errA == nil && errB == nil {
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if c := strings.Compare(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}
