// Package tracker maintains the append-only ledger of successfully staged
// external ids. The on-disk format is one id per line; existence of an id
// means the record was staged, so failed items stay eligible for retry.
package tracker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ledgerFilename = "processed_ids.txt"

type Tracker struct {
	path string
	ids  map[string]bool
}

// New opens (or creates) the ledger under dir and loads its ids.
func New(dir string) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tracker directory: %w", err)
	}

	t := &Tracker{
		path: filepath.Join(dir, ledgerFilename),
		ids:  make(map[string]bool),
	}

	file, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			t.ids[id] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	return t, nil
}

// MarkProcessed appends id to the ledger. Idempotent: an id already present
// is not written again.
func (t *Tracker) MarkProcessed(id string) error {
	if id == "" {
		return fmt.Errorf("cannot mark empty id as processed")
	}
	if t.ids[id] {
		return nil
	}

	file, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger for append: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, id); err != nil {
		return fmt.Errorf("failed to append to ledger: %w", err)
	}

	t.ids[id] = true
	return nil
}

func (t *Tracker) IsProcessed(id string) bool {
	return t.ids[id]
}

func (t *Tracker) ShouldProcess(id string) bool {
	return !t.IsProcessed(id)
}

// Count returns the number of ids in the ledger.
func (t *Tracker) Count() int {
	return len(t.ids)
}
