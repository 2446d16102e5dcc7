package ledger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ProcessedSet records the snapshot files already turned into candidates so a
// re-run skips them before parsing.
type ProcessedSet struct {
	path    string
	entries []string
	seen    map[string]struct{}
}

// OpenProcessed reads the newline separated set at path. A missing file is an
// empty set.
func OpenProcessed(path string) (*ProcessedSet, error) {
	p := &ProcessedSet{path: path, seen: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read processed set %s: %w", path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		p.Mark(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read processed set %s: %w", path, err)
	}
	return p, nil
}

// Has reports whether file was processed.
func (p *ProcessedSet) Has(file string) bool {
	_, ok := p.seen[strings.TrimSpace(file)]
	return ok
}

// Mark records file as processed.
func (p *ProcessedSet) Mark(file string) {
	file = strings.TrimSpace(file)
	if file == "" {
		return
	}
	if _, ok := p.seen[file]; ok {
		return
	}
	p.seen[file] = struct{}{}
	p.entries = append(p.entries, file)
}

// Len returns the number of processed files.
func (p *ProcessedSet) Len() int {
	return len(p.entries)
}

// Save rewrites the set file.
func (p *ProcessedSet) Save() error {
	return writeAtomic(p.path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, e := range p.entries {
			if _, err := bw.WriteString(e + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}
