// Package names maps team names as bookmakers spell them onto the names used
// in the historical table.
package names

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// DefaultCutoff is the minimum similarity score (0-100) for a fuzzy match.
const DefaultCutoff = 80

// suffixes scrapers append to team names on derivative markets.
var suffixes = []string{" (Kills)"}

// Corrections is a fixed scraped-name -> historical-name table.
type Corrections map[string]string

// LoadCorrections reads a YAML mapping of scraped names to historical names.
// A missing file yields an empty table.
func LoadCorrections(path string) (Corrections, error) {
	if path == "" {
		return Corrections{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Corrections{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read name corrections %s: %w", path, err)
	}
	out := Corrections{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse name corrections %s: %w", path, err)
	}
	return out, nil
}

// Resolver applies the correction table, strips market suffixes and falls back
// to fuzzy matching against the known team list.
type Resolver struct {
	corrections Corrections
	known       []string
	knownSet    map[string]struct{}
	cutoff      int
}

// NewResolver creates a resolver. known should be sorted so fuzzy ties
// resolve the same way on every run. A cutoff <= 0 disables fuzzy matching.
func NewResolver(corrections Corrections, known []string, cutoff int) *Resolver {
	set := make(map[string]struct{}, len(known))
	for _, k := range known {
		set[k] = struct{}{}
	}
	if corrections == nil {
		corrections = Corrections{}
	}
	return &Resolver{
		corrections: corrections,
		known:       known,
		knownSet:    set,
		cutoff:      cutoff,
	}
}

// Resolve returns the historical name for a scraped name, or the cleaned name
// unchanged when nothing matches.
func (r *Resolver) Resolve(name string) string {
	name = strings.TrimSpace(name)
	if fixed, ok := r.corrections[name]; ok {
		return fixed
	}
	for _, s := range suffixes {
		name = strings.TrimSuffix(name, s)
	}
	if fixed, ok := r.corrections[name]; ok {
		return fixed
	}
	if _, ok := r.knownSet[name]; ok || r.cutoff <= 0 {
		return name
	}

	best, bestScore := "", 0
	for _, candidate := range r.known {
		if score := Similarity(name, candidate); score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore >= r.cutoff {
		return best
	}
	return name
}

// Similarity scores two names from 0 to 100 by case-insensitive edit distance.
func Similarity(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (longest - dist) * 100 / longest
}
