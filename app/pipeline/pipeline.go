package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/deepvdocs/docstage/app/catalog"
	"github.com/deepvdocs/docstage/app/convert"
	"github.com/deepvdocs/docstage/app/corpus"
	"github.com/deepvdocs/docstage/app/generate"
	"github.com/deepvdocs/docstage/app/tracker"
)

// Pipeline drives a corpus record from source JSON to a validated staging
// document: select answers, allocate a token budget, generate, convert,
// persist, and finally mark the item processed.
type Pipeline struct {
	scanner    *corpus.Scanner
	tracker    *tracker.Tracker
	converter  *convert.Converter
	generator  generate.Generator
	repo       catalog.Repository
	quarantine *Quarantine
	stagingDir string
}

func New(scanner *corpus.Scanner, trk *tracker.Tracker, converter *convert.Converter,
	generator generate.Generator, repo catalog.Repository, quarantine *Quarantine,
	stagingDir string) *Pipeline {
	return &Pipeline{
		scanner:    scanner,
		tracker:    trk,
		converter:  converter,
		generator:  generator,
		repo:       repo,
		quarantine: quarantine,
		stagingDir: stagingDir,
	}
}

// ProcessOne processes a single item by external id.
func (p *Pipeline) ProcessOne(ctx context.Context, id string) Result {
	threshold, err := p.scanner.FeaturedThreshold()
	if err != nil {
		slog.Warn("Failed to compute featured threshold", "error", err)
	}
	return p.processOne(ctx, id, threshold)
}

func (p *Pipeline) processOne(ctx context.Context, id string, featuredThreshold int) Result {
	if !p.tracker.ShouldProcess(id) {
		return Result{ID: id, Status: StatusSkipped}
	}

	path, err := p.scanner.FindByID(id)
	if err != nil {
		return failure(id, FailureStorage, err)
	}
	if path == "" {
		return failure(id, FailureNotFound, fmt.Errorf("no source file for id %s", id))
	}

	rec, err := p.scanner.Load(path)
	if err != nil {
		return failure(id, FailureMissingData, err)
	}

	answers := corpus.SelectQualityAnswers(rec.Answers)
	allocation := corpus.Allocate(rec)
	prompt := generate.BuildPrompt(rec, answers)

	resp, err := p.generator.Generate(ctx, generate.Request{
		Prompt:    prompt,
		MaxTokens: allocation.Tokens,
	})
	if err != nil {
		p.isolate(path, id, err)
		return failure(id, FailureGeneration, err)
	}

	featured := featuredThreshold > 0 && rec.Votes >= featuredThreshold
	doc, err := p.converter.Convert(rec, resp.Content, featured)
	if err != nil {
		p.isolate(path, id, err)
		return failure(id, FailureValidation, err)
	}

	if err := p.writeStaging(doc); err != nil {
		return failure(id, FailureStorage, err)
	}

	if err := p.repo.SaveDocument(catalog.Document{
		UniqueID:        doc.UniqueID,
		SourceID:        doc.SourceID,
		Slug:            doc.Frontmatter.Slug,
		Filename:        doc.Filename,
		Title:           doc.Frontmatter.Title,
		Category:        doc.Frontmatter.Category,
		Subcategory:     doc.Frontmatter.Subcategory,
		Difficulty:      doc.Frontmatter.Difficulty,
		ReadTime:        doc.Frontmatter.ReadTime,
		WordCount:       doc.Metrics.Words,
		CodeBlocks:      doc.Metrics.CodeBlocks,
		Headers:         doc.Metrics.Headers,
		TokensAllocated: allocation.Tokens,
		Tier:            allocation.Tier,
		Featured:        featured,
	}); err != nil {
		// Keep the catalog and staging directory in step
		os.Remove(filepath.Join(p.stagingDir, doc.Filename))
		return failure(id, FailureStorage, err)
	}

	// Ledger write comes last: an item is only ever marked processed once
	// its document exists on disk and in the catalog
	if err := p.tracker.MarkProcessed(id); err != nil {
		return failure(id, FailureStorage, err)
	}

	return Result{ID: id, Status: StatusProcessed, Filename: doc.Filename}
}

// ProcessBatch processes up to limit items in scan order. Items already in
// the ledger count toward the limit as skipped, and a failing item never
// aborts the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, limit int) (Summary, error) {
	files, err := p.scanner.Available()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to scan corpus: %w", err)
	}
	return p.run(ctx, window(files, limit))
}

// Sweep processes up to limit unprocessed items. Unlike ProcessBatch, items
// already in the ledger never consume limit slots, so repeated sweeps keep
// advancing through a corpus larger than the window.
func (p *Pipeline) Sweep(ctx context.Context, limit int) (Summary, error) {
	files, err := p.scanner.Unprocessed(p.tracker)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to scan corpus: %w", err)
	}
	return p.run(ctx, window(files, limit))
}

func window(files []string, limit int) []string {
	if limit > 0 && len(files) > limit {
		return files[:limit]
	}
	return files
}

func (p *Pipeline) run(ctx context.Context, files []string) (Summary, error) {
	if len(files) == 0 {
		return Summary{}, nil
	}

	started := time.Now().UTC()

	threshold, err := p.scanner.FeaturedThreshold()
	if err != nil {
		slog.Warn("Failed to compute featured threshold", "error", err)
	}

	var summary Summary
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}

		id := corpus.ExtractID(filepath.Base(file))
		if id == "" {
			summary.Failed++
			slog.Warn("Skipping file with unrecognized name", "file", filepath.Base(file))
			continue
		}

		result := p.processOne(ctx, id, threshold)
		switch result.Status {
		case StatusProcessed:
			summary.Processed++
			slog.Info("Item processed", "id", id, "file", result.Filename)
		case StatusSkipped:
			summary.Skipped++
			slog.Debug("Item already processed, skipping", "id", id)
		case StatusFailed:
			summary.Failed++
			slog.Error("Item failed", "id", id, "kind", result.Kind, "error", result.Err)
		}
	}

	if err := p.repo.SaveRun(catalog.Run{
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Processed:  summary.Processed,
		Failed:     summary.Failed,
		Skipped:    summary.Skipped,
	}); err != nil {
		slog.Warn("Failed to record run summary", "error", err)
	}

	slog.Info("Batch completed",
		"duration", time.Since(started).Round(time.Millisecond),
		"processed", summary.Processed,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	return summary, nil
}

func (p *Pipeline) writeStaging(doc *convert.Document) error {
	if err := os.MkdirAll(p.stagingDir, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	path := filepath.Join(p.stagingDir, doc.Filename)
	if err := os.WriteFile(path, []byte(doc.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write staging document: %w", err)
	}
	return nil
}

func (p *Pipeline) isolate(path, id string, cause error) {
	if p.quarantine == nil {
		return
	}
	if err := p.quarantine.Isolate(path, id, cause); err != nil {
		slog.Warn("Failed to quarantine source", "id", id, "error", err)
	}
}

func failure(id string, kind FailureKind, err error) Result {
	return Result{ID: id, Status: StatusFailed, Kind: kind, Err: err}
}
