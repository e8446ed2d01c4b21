package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deepvdocs/docstage/app/catalog"
	"github.com/deepvdocs/docstage/app/tracker"
)

const (
	defaultListLimit  = 50
	defaultBatchCount = 10
	maxBatchCount     = 500
)

func NewHandler(repo catalog.Repository, trk *tracker.Tracker, runner BatchRunner, version string) *Handler {
	return &Handler{
		repo:    repo,
		tracker: trk,
		runner:  runner,
		version: version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	}

	if count, err := h.repo.GetDocumentCount(); err == nil {
		health["documents"] = count
	}
	health["processed_ids"] = h.tracker.Count()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	response := gin.H{
		"documents": stats.Documents,
		"featured":  stats.Featured,
		"runs":      stats.Runs,
		"processed": stats.Processed,
		"failed":    stats.Failed,
		"skipped":   stats.Skipped,
	}
	if stats.LastRunAt != nil {
		response["last_run_at"] = stats.LastRunAt.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) APIListDocuments(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	docs, err := h.repo.ListDocuments(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_documents", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	documents := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		documents = append(documents, map[string]interface{}{
			"unique_id":        doc.UniqueID,
			"source_id":        doc.SourceID,
			"filename":         doc.Filename,
			"title":            doc.Title,
			"category":         doc.Category,
			"subcategory":      doc.Subcategory,
			"difficulty":       doc.Difficulty,
			"read_time":        doc.ReadTime,
			"word_count":       doc.WordCount,
			"tokens_allocated": doc.TokensAllocated,
			"tier":             doc.Tier,
			"featured":         doc.Featured,
			"created_at":       doc.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(documents),
		"documents": documents,
	})
}

func (h *Handler) APIProcess(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(defaultBatchCount)))
	if err != nil || count <= 0 || count > maxBatchCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 500"})
		return
	}

	summary, err := h.runner.ProcessBatch(c.Request.Context(), count)
	if err != nil {
		slog.Error("Batch processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processed": summary.Processed,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
		"total":     summary.Total(),
	})
}
