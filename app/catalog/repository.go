package catalog

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLRepository handles catalog database operations
type SQLRepository struct {
	db *DB
}

// NewRepository creates a new catalog repository
func NewRepository(db *DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// SaveDocument stores a document entry, replacing any previous entry for the
// same unique id
func (r *SQLRepository) SaveDocument(doc Document) error {
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO documents (
			unique_id, source_id, slug, filename, title, category,
			subcategory, difficulty, read_time, word_count, code_blocks,
			headers, tokens_allocated, tier, featured, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (unique_id) DO UPDATE SET
			slug = EXCLUDED.slug,
			filename = EXCLUDED.filename,
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			subcategory = EXCLUDED.subcategory,
			difficulty = EXCLUDED.difficulty,
			read_time = EXCLUDED.read_time,
			word_count = EXCLUDED.word_count,
			code_blocks = EXCLUDED.code_blocks,
			headers = EXCLUDED.headers,
			tokens_allocated = EXCLUDED.tokens_allocated,
			tier = EXCLUDED.tier,
			featured = EXCLUDED.featured
	`, doc.UniqueID, doc.SourceID, doc.Slug, doc.Filename, doc.Title,
		doc.Category, doc.Subcategory, doc.Difficulty, doc.ReadTime,
		doc.WordCount, doc.CodeBlocks, doc.Headers, doc.TokensAllocated,
		doc.Tier, doc.Featured, createdAt)

	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// GetDocument returns the entry for a unique id, or nil when absent
func (r *SQLRepository) GetDocument(uniqueID string) (*Document, error) {
	row := r.db.QueryRow(`
		SELECT unique_id, source_id, slug, filename, title, category,
			subcategory, difficulty, read_time, word_count, code_blocks,
			headers, tokens_allocated, tier, featured, created_at
		FROM documents
		WHERE unique_id = $1
	`, uniqueID)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// ListDocuments returns the most recent entries, newest first
func (r *SQLRepository) ListDocuments(limit int) ([]Document, error) {
	rows, err := r.db.Query(`
		SELECT unique_id, source_id, slug, filename, title, category,
			subcategory, difficulty, read_time, word_count, code_blocks,
			headers, tokens_allocated, tier, featured, created_at
		FROM documents
		ORDER BY created_at DESC, unique_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	return docs, rows.Err()
}

// GetDocumentCount returns the number of cataloged documents
func (r *SQLRepository) GetDocumentCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// HasSource reports whether a source id already produced a document
func (r *SQLRepository) HasSource(sourceID string) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM documents WHERE source_id = $1 LIMIT 1`, sourceID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check source: %w", err)
	}
	return true, nil
}

// SaveRun stores a batch run summary
func (r *SQLRepository) SaveRun(run Run) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (started_at, finished_at, processed, failed, skipped)
		VALUES ($1, $2, $3, $4, $5)
	`, run.StartedAt, run.FinishedAt, run.Processed, run.Failed, run.Skipped)

	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetStats aggregates document and run totals
func (r *SQLRepository) GetStats() (Stats, error) {
	var stats Stats

	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(featured), 0) FROM documents
	`).Scan(&stats.Documents, &stats.Featured)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get document stats: %w", err)
	}

	err = r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(processed), 0), COALESCE(SUM(failed), 0),
			COALESCE(SUM(skipped), 0)
		FROM runs
	`).Scan(&stats.Runs, &stats.Processed, &stats.Failed, &stats.Skipped)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get run stats: %w", err)
	}

	var lastRun time.Time
	err = r.db.QueryRow(`
		SELECT finished_at FROM runs ORDER BY finished_at DESC LIMIT 1
	`).Scan(&lastRun)
	if err != nil && err != sql.ErrNoRows {
		return Stats{}, fmt.Errorf("failed to get last run: %w", err)
	}
	if err == nil {
		stats.LastRunAt = &lastRun
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row scanner) (*Document, error) {
	var doc Document
	err := row.Scan(&doc.UniqueID, &doc.SourceID, &doc.Slug, &doc.Filename,
		&doc.Title, &doc.Category, &doc.Subcategory, &doc.Difficulty,
		&doc.ReadTime, &doc.WordCount, &doc.CodeBlocks, &doc.Headers,
		&doc.TokensAllocated, &doc.Tier, &doc.Featured, &doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
