package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deepvdocs/docstage/app/pipeline"
)

// BatchRunner is the sweep entry point. Sweep, not ProcessBatch: a batch
// window shared with already-processed items would stop advancing once the
// first window of the corpus is in the ledger.
type BatchRunner interface {
	Sweep(ctx context.Context, limit int) (pipeline.Summary, error)
}

var _ BatchRunner = (*pipeline.Pipeline)(nil)

// Scheduler sweeps the corpus on a fixed interval, processing up to
// batchSize unprocessed records per sweep. Sweeps never overlap: the next
// tick waits until the current batch returns.
type Scheduler struct {
	runner    BatchRunner
	interval  time.Duration
	batchSize int
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func New(runner BatchRunner, interval time.Duration, batchSize int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner:    runner,
		interval:  interval,
		batchSize: batchSize,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) sweep() {
	summary, err := s.runner.Sweep(s.ctx, s.batchSize)
	if err != nil {
		slog.Error("Scheduled sweep failed", "error", err)
		return
	}
	if summary.Processed > 0 || summary.Failed > 0 {
		slog.Info("Scheduled sweep completed",
			"processed", summary.Processed,
			"failed", summary.Failed,
			"skipped", summary.Skipped)
	}
}
