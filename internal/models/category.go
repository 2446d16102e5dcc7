package models

import (
	"fmt"
	"strings"
)

// Category is one of the statistics a bookmaker offers a market on.
type Category int

const (
	CategoryTowers Category = iota + 1
	CategoryDragons
	CategoryBarons
	CategoryKills
	CategoryInhibitors
	CategoryGameLength
	CategoryFirstDragon
)

type categoryInfo struct {
	key    string // ledger bet_line key
	market string // key in the scraped snapshot
	column string // historical table column, empty for side markets
	side   bool
}

var categoryTable = map[Category]categoryInfo{
	CategoryTowers:      {key: "total_towers", market: "total_towers", column: "total_towers"},
	CategoryDragons:     {key: "total_dragons", market: "total_dragons", column: "total_dragons"},
	CategoryBarons:      {key: "total_barons", market: "total_barons", column: "total_barons"},
	CategoryKills:       {key: "total_kills", market: "total_kills", column: "total_kills"},
	CategoryInhibitors:  {key: "total_inhibitors", market: "total_inhibitors", column: "total_inhibitors"},
	CategoryGameLength:  {key: "game_duration", market: "game_duration", column: "gamelength"},
	CategoryFirstDragon: {key: "first_dragon", market: "first_dragon", side: true},
}

// AllCategories returns every supported category in evaluation order.
func AllCategories() []Category {
	return []Category{
		CategoryDragons,
		CategoryTowers,
		CategoryKills,
		CategoryFirstDragon,
		CategoryGameLength,
		CategoryInhibitors,
		CategoryBarons,
	}
}

// ThresholdCategories returns the over/under categories.
func ThresholdCategories() []Category {
	var out []Category
	for _, c := range AllCategories() {
		if !c.IsSideMarket() {
			out = append(out, c)
		}
	}
	return out
}

// ParseCategory resolves a ledger key or market key to a Category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for c, info := range categoryTable {
		if info.key == s || info.market == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedCategory, s)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// String returns the ledger key, e.g. "total_dragons".
func (c Category) String() string {
	if info, ok := categoryTable[c]; ok {
		return info.key
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// MarketKey returns the key under which scrapers store this market.
func (c Category) MarketKey() string {
	return categoryTable[c].market
}

// Column returns the historical column holding the match total.
// Side markets have no single column and return "".
func (c Category) Column() string {
	return categoryTable[c].column
}

// IsSideMarket reports whether the market is a two-way team pick rather than
// an over/under line.
func (c Category) IsSideMarket() bool {
	return categoryTable[c].side
}
