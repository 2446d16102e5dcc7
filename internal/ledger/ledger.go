// Package ledger persists emitted bet candidates as a CSV file and tracks
// which snapshot files have already been processed.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/yourusername/esports-edge/internal/models"
)

const dateLayout = "2006-01-02"

// Row is one ledger line. Column names match the files the dashboard and
// grading scripts read.
type Row struct {
	Date     string `csv:"date"`
	League   string `csv:"league"`
	T1       string `csv:"t1"`
	T2       string `csv:"t2"`
	BetType  string `csv:"bet_type"`
	BetLine  string `csv:"bet_line"`
	ROI      string `csv:"ROI"`
	FairOdds string `csv:"fair_odds"`
	Odds     string `csv:"odds"`
	House    string `csv:"House"`
	URL      string `csv:"url"`
	Status   string `csv:"status"`
}

// Key returns the deduplication identity of the row.
func (r *Row) Key() string {
	return models.IdentityKey(r.Date, r.T1, r.T2, r.BetType, r.BetLine, r.House)
}

// RowFromCandidate renders a candidate as a ledger row.
func RowFromCandidate(c *models.BetCandidate) Row {
	status := c.Status
	if status == "" {
		status = models.BetStatusPending
	}
	return Row{
		Date:     c.Date,
		League:   c.League,
		T1:       c.T1,
		T2:       c.T2,
		BetType:  string(c.Side),
		BetLine:  c.BetLine(),
		ROI:      c.ROIString(),
		FairOdds: c.FairOddsString(),
		Odds:     c.OddsString(),
		House:    c.House,
		URL:      c.URL,
		Status:   string(status),
	}
}

// Ledger is the in-memory copy of the bet ledger. It is read whole, changed,
// and written back whole.
type Ledger struct {
	path string
	rows []Row
	keys map[string]struct{}
}

// Open reads the ledger at path. A missing or empty file is an empty ledger.
func Open(path string) (*Ledger, error) {
	l := &Ledger{path: path, keys: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return l, nil
	}

	if err := gocsv.UnmarshalBytes(data, &l.rows); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}
	for i := range l.rows {
		l.keys[l.rows[i].Key()] = struct{}{}
	}
	return l, nil
}

// Path returns the ledger file path.
func (l *Ledger) Path() string {
	return l.path
}

// Len returns the number of rows.
func (l *Ledger) Len() int {
	return len(l.rows)
}

// Rows returns a copy of the rows.
func (l *Ledger) Rows() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

// Contains reports whether a row with this identity key exists.
func (l *Ledger) Contains(key string) bool {
	_, ok := l.keys[key]
	return ok
}

// Append adds the candidate unless a row with the same identity already
// exists. It reports whether the row was added.
func (l *Ledger) Append(c *models.BetCandidate) bool {
	row := RowFromCandidate(c)
	key := row.Key()
	if _, dup := l.keys[key]; dup {
		return false
	}
	l.rows = append(l.rows, row)
	l.keys[key] = struct{}{}
	return true
}

// PurgeStalePending removes pending rows dated more than days before today.
// Rows with unreadable dates are kept. The removed rows are returned.
func (l *Ledger) PurgeStalePending(today time.Time, days int) []Row {
	y, m, d := today.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)

	kept := l.rows[:0]
	var purged []Row
	for _, row := range l.rows {
		if row.Status == string(models.BetStatusPending) {
			if date, err := time.Parse(dateLayout, row.Date); err == nil && date.Before(cutoff) {
				purged = append(purged, row)
				delete(l.keys, row.Key())
				continue
			}
		}
		kept = append(kept, row)
	}
	l.rows = kept
	return purged
}

// Save rewrites the whole ledger file.
func (l *Ledger) Save() error {
	return writeAtomic(l.path, func(w io.Writer) error {
		return gocsv.Marshal(&l.rows, w)
	})
}

// writeAtomic writes to a temp file next to path and renames it into place.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
