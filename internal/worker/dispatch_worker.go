package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ecoshop/internal/events"
	"ecoshop/internal/metrics"
)

// DispatchWorker drains the outbox in batches and hands them to the publisher.
// Failed batches go back to the head of the outbox for the next tick.
type DispatchWorker struct {
	outbox    *events.Outbox
	publisher events.Publisher
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

func NewDispatchWorker(outbox *events.Outbox, publisher events.Publisher, m *metrics.Metrics, interval time.Duration, batchSize int) *DispatchWorker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &DispatchWorker{
		outbox:    outbox,
		publisher: publisher,
		metrics:   m,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (w *DispatchWorker) Start(ctx context.Context) {
	slog.Info("starting dispatch worker", "interval", w.interval, "batch_size", w.batchSize)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flush()
			slog.Info("dispatch worker stopped")
			return
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				slog.Error("batch dispatch failed", "error", err)
			}
		}
	}
}

func (w *DispatchWorker) processBatch(ctx context.Context) error {
	defer func() { w.metrics.SetOutboxDepth(w.outbox.Len()) }()

	batch := w.outbox.Take(w.batchSize)
	if len(batch) == 0 {
		return nil
	}

	err := w.publisher.Publish(ctx, batch)
	w.metrics.ObservePublish(len(batch), err)
	if err != nil {
		w.outbox.Requeue(batch)
		return fmt.Errorf("publish %d events: %w", len(batch), err)
	}

	slog.Debug("events dispatched", "count", len(batch))
	return nil
}

// flush makes one last attempt to deliver what is left on shutdown.
func (w *DispatchWorker) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for w.outbox.Len() > 0 {
		if err := w.processBatch(ctx); err != nil {
			slog.Warn("events left undelivered on shutdown", "count", w.outbox.Len(), "error", err)
			return
		}
	}
}
