package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/loanrisk/pkg/events"
)

// EntryPublisher sends outbox entries to the broker.
type EntryPublisher interface {
	Publish(ctx context.Context, entries ...events.OutboxEntry) error
}

// RelayConfig tunes the outbox relay.
type RelayConfig struct {
	// Interval between polls when the outbox is drained. Zero means 1s.
	Interval time.Duration
	// BatchSize caps entries per poll. Zero means 100.
	BatchSize int
}

// OutboxRelay moves committed outbox entries to the broker. Delivery is at
// least once: an entry is marked only after the broker accepted it, so a
// crash between the two re-sends it. Consumers dedupe on the event_id header.
type OutboxRelay struct {
	outbox    events.OutboxRepository
	publisher EntryPublisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewOutboxRelay creates a relay reading from outbox and writing to publisher.
func NewOutboxRelay(outbox events.OutboxRepository, publisher EntryPublisher, cfg RelayConfig, logger *slog.Logger) *OutboxRelay {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

// RelayOnce publishes one batch and returns how many entries were marked.
// On a publish failure nothing is marked and the batch is retried on the
// next call.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch outbox: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	if err := r.publisher.Publish(ctx, entries...); err != nil {
		return 0, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := r.outbox.MarkPublished(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}
	return len(entries), nil
}

// Run polls until ctx is cancelled. A full batch is followed immediately by
// another poll; failures are logged and retried after Interval.
func (r *OutboxRelay) Run(ctx context.Context) error {
	r.logger.Info("outbox relay started", "interval", r.interval, "batch_size", r.batchSize)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil
		case <-timer.C:
		}

		n, err := r.RelayOnce(ctx)
		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			r.logger.Warn("outbox relay pass failed", "error", err)
			timer.Reset(r.interval)
		case n == r.batchSize:
			timer.Reset(0)
		default:
			timer.Reset(r.interval)
		}
	}
}
