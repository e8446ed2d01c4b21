package api

import (
	"context"

	"github.com/deepvdocs/docstage/app/catalog"
	"github.com/deepvdocs/docstage/app/pipeline"
	"github.com/deepvdocs/docstage/app/tracker"
)

type BatchRunner interface {
	ProcessBatch(ctx context.Context, limit int) (pipeline.Summary, error)
}

var _ BatchRunner = (*pipeline.Pipeline)(nil)

type Handler struct {
	repo    catalog.Repository
	tracker *tracker.Tracker
	runner  BatchRunner
	version string
}
