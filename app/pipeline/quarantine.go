package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Quarantine isolates failed source files for later inspection. Quarantined
// items never enter the ledger, so a fixed source is picked up again on the
// next run.
type Quarantine struct {
	dir string
}

func NewQuarantine(dir string) *Quarantine {
	return &Quarantine{dir: dir}
}

// Isolate copies the source file into the quarantine directory and writes a
// companion error report next to it.
func (q *Quarantine) Isolate(sourcePath, id string, cause error) error {
	if err := os.MkdirAll(q.dir, 0755); err != nil {
		return fmt.Errorf("failed to create quarantine directory: %w", err)
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source for quarantine: %w", err)
	}
	if err := os.WriteFile(filepath.Join(q.dir, filepath.Base(sourcePath)), data, 0644); err != nil {
		return fmt.Errorf("failed to copy source to quarantine: %w", err)
	}

	report := fmt.Sprintf("%s\n%v\n", time.Now().UTC().Format(time.RFC3339), cause)
	errorPath := filepath.Join(q.dir, fmt.Sprintf("%s_error.txt", id))
	if err := os.WriteFile(errorPath, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write quarantine report: %w", err)
	}

	return nil
}
