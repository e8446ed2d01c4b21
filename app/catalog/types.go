package catalog

import (
	"time"
)

// Document is a staged document's catalog entry.
type Document struct {
	UniqueID        string
	SourceID        string
	Slug            string
	Filename        string
	Title           string
	Category        string
	Subcategory     string
	Difficulty      string
	ReadTime        int
	WordCount       int
	CodeBlocks      int
	Headers         int
	TokensAllocated int
	Tier            string
	Featured        bool
	CreatedAt       time.Time
}

// Run summarizes one batch execution.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Failed     int
	Skipped    int
}

// Stats aggregates catalog totals for the API.
type Stats struct {
	Documents int
	Featured  int
	Runs      int
	Processed int
	Failed    int
	Skipped   int
	LastRunAt *time.Time
}

type Repository interface {
	SaveDocument(doc Document) error
	GetDocument(uniqueID string) (*Document, error)
	ListDocuments(limit int) ([]Document, error)
	GetDocumentCount() (int, error)
	HasSource(sourceID string) (bool, error)

	SaveRun(run Run) error
	GetStats() (Stats, error)
}
