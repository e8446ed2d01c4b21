package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingData marks records that lack required fields. Such records are
// rejected before any generation work is attempted.
var ErrMissingData = errors.New("record is missing required data")

// externalID accepts both string and numeric id encodings found in crawled
// question files.
type externalID string

func (e *externalID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = externalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*e = externalID(n.String())
	return nil
}

// Comment is a single comment attached to an answer.
type Comment struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Answer is a raw crawled answer.
type Answer struct {
	Text         string    `json:"text"`
	Votes        int       `json:"votes"`
	IsAccepted   bool      `json:"is_accepted"`
	CodeSnippets []string  `json:"code_snippets"`
	Comments     []Comment `json:"comments"`
}

// Record is a raw crawled question/answer unit. Immutable once read.
type Record struct {
	ID           externalID `json:"id"`
	QuestionID   externalID `json:"question_id"`
	Title        string     `json:"title"`
	QuestionText string     `json:"question_text"`
	Votes        int        `json:"votes"`
	Tags         []string   `json:"tags"`
	CodeSnippets []string   `json:"question_code_snippets"`
	Answers      []Answer   `json:"answers"`
}

// ExternalID returns the source identifier, preferring question_id over id.
func (r *Record) ExternalID() string {
	if r.QuestionID != "" {
		return string(r.QuestionID)
	}
	return string(r.ID)
}

// ParseRecord decodes and validates a crawled question file at the boundary.
func ParseRecord(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	var missing []string
	if strings.TrimSpace(rec.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(rec.QuestionText) == "" {
		missing = append(missing, "question_text")
	}
	if len(rec.Tags) == 0 {
		missing = append(missing, "tags")
	}
	if len(rec.Answers) == 0 {
		missing = append(missing, "answers")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingData, strings.Join(missing, ", "))
	}

	return &rec, nil
}
