package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProcessedChecker reports whether an external id still needs processing.
// Satisfied by the tracker ledger.
type ProcessedChecker interface {
	ShouldProcess(id string) bool
}

// Scanner enumerates crawled question files in a corpus directory.
type Scanner struct {
	corpusDir string
}

func NewScanner(corpusDir string) *Scanner {
	return &Scanner{corpusDir: corpusDir}
}

// Available returns all candidate source files in deterministic name order.
// A missing corpus directory yields an empty list, not an error.
func (s *Scanner) Available() ([]string, error) {
	if _, err := os.Stat(s.corpusDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(s.corpusDir, "question_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus directory: %w", err)
	}
	processed, err := filepath.Glob(filepath.Join(s.corpusDir, "processed_question_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus directory: %w", err)
	}
	files = append(files, processed...)

	sort.Strings(files)
	return files, nil
}

// Unprocessed filters the candidate list to files whose id is absent from
// the ledger. A nil checker returns every candidate.
func (s *Scanner) Unprocessed(checker ProcessedChecker) ([]string, error) {
	files, err := s.Available()
	if err != nil {
		return nil, err
	}
	if checker == nil {
		return files, nil
	}

	var unprocessed []string
	for _, file := range files {
		id := ExtractID(filepath.Base(file))
		if id != "" && checker.ShouldProcess(id) {
			unprocessed = append(unprocessed, file)
		}
	}
	return unprocessed, nil
}

// FindByID locates the source file carrying the given external id.
func (s *Scanner) FindByID(id string) (string, error) {
	files, err := s.Available()
	if err != nil {
		return "", err
	}
	for _, file := range files {
		if ExtractID(filepath.Base(file)) == id {
			return file, nil
		}
	}
	return "", nil
}

// Load reads and validates the record stored at path.
func (s *Scanner) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	return ParseRecord(data)
}

// FeaturedThreshold computes the vote count separating the top 10% of the
// corpus. Records at or above the threshold are marked featured. A corpus
// with no positively voted records yields zero (nothing is featured).
func (s *Scanner) FeaturedThreshold() (int, error) {
	files, err := s.Available()
	if err != nil {
		return 0, err
	}

	var votes []int
	for _, file := range files {
		rec, err := s.Load(file)
		if err != nil {
			continue
		}
		if rec.Votes > 0 {
			votes = append(votes, rec.Votes)
		}
	}
	if len(votes) == 0 {
		return 0, nil
	}

	sort.Sort(sort.Reverse(sort.IntSlice(votes)))
	idx := len(votes) / 10
	if idx >= len(votes) {
		idx = len(votes) - 1
	}
	return votes[idx], nil
}

// ExtractID pulls the external id out of a corpus filename. Two naming
// conventions are supported: question_<id>_<slug>.json and
// processed_question_<id>_<slug>.json.
func ExtractID(filename string) string {
	switch {
	case strings.HasPrefix(filename, "processed_question_"):
		parts := strings.Split(filename, "_")
		if len(parts) >= 3 {
			return parts[2]
		}
	case strings.HasPrefix(filename, "question_"):
		parts := strings.Split(filename, "_")
		if len(parts) >= 2 {
			return parts[1]
		}
	}
	return ""
}
