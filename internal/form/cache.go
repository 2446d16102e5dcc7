package form

import (
	cache "github.com/patrickmn/go-cache"
)

type cacheEntry struct {
	calc *Calculator
	err  error
}

// Cache memoises calculators by team for the duration of one run. Unknown
// teams are cached too so the lookup is not repeated for every snapshot.
type Cache struct {
	cache  *cache.Cache
	source Source
	cfg    WindowConfig
}

// NewCache creates an empty calculator cache over source.
func NewCache(source Source, cfg WindowConfig) *Cache {
	return &Cache{
		cache:  cache.New(cache.NoExpiration, 0),
		source: source,
		cfg:    cfg,
	}
}

// Get returns the calculator for team, building it on first use.
func (c *Cache) Get(team string) (*Calculator, error) {
	if v, found := c.cache.Get(team); found {
		entry := v.(cacheEntry)
		return entry.calc, entry.err
	}
	calc, err := NewCalculator(team, c.source, c.cfg)
	c.cache.Set(team, cacheEntry{calc: calc, err: err}, cache.NoExpiration)
	return calc, err
}

// Len returns the number of cached teams.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every cached calculator.
func (c *Cache) Flush() {
	c.cache.Flush()
}
