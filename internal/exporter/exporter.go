package exporter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"expense-ledger-go/internal/store"

	"go.uber.org/zap"
)

// DefaultCursorName identifies the AMQP export position in export_cursors.
const DefaultCursorName = "feedback-amqp"

// Publisher delivers one feedback message downstream.
type Publisher interface {
	Publish(ctx context.Context, msg FeedbackMessage) error
}

// Config contains configuration for Exporter
type Config struct {
	Store           store.FeedbackStore
	Publisher       Publisher
	CursorName      string
	PollingInterval time.Duration
	BatchSize       int
}

// Exporter tails the feedback ledger and forwards new events to a
// Publisher. Delivery is at-least-once: the cursor only moves past events
// that were published.
type Exporter struct {
	store           store.FeedbackStore
	publisher       Publisher
	cursorName      string
	pollingInterval time.Duration
	batchSize       int

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

func New(cfg Config) (*Exporter, error) {
	if cfg.Store == nil || cfg.Publisher == nil {
		return nil, errors.New("exporter requires a store and a publisher")
	}
	if cfg.PollingInterval <= 0 {
		return nil, fmt.Errorf("polling interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.CursorName == "" {
		cfg.CursorName = DefaultCursorName
	}

	return &Exporter{
		store:           cfg.Store,
		publisher:       cfg.Publisher,
		cursorName:      cfg.CursorName,
		pollingInterval: cfg.PollingInterval,
		batchSize:       cfg.BatchSize,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}, nil
}

// Start drains the backlog and then polls in the background until Stop is
// called or ctx is cancelled. An Exporter can be started once.
func (e *Exporter) Start(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return errors.New("feedback exporter already started")
	}
	zap.L().Info("Starting feedback exporter", zap.String("cursor", e.cursorName))

	// Catch up on everything recorded while the exporter was down
	total, err := e.Drain(ctx)
	if err != nil {
		close(e.doneChan)
		return fmt.Errorf("startup drain failed: %w", err)
	}

	go e.pollLoop(ctx)

	zap.L().Info("Feedback exporter started",
		zap.Int("backlog_exported", total),
		zap.Duration("polling_interval", e.pollingInterval),
		zap.Int("batch_size", e.batchSize))
	return nil
}

// Stop gracefully stops the exporter. It is safe to call more than once and
// on an exporter whose Start failed or never ran.
func (e *Exporter) Stop() {
	e.stopOnce.Do(func() {
		zap.L().Info("Stopping feedback exporter")
		close(e.stopChan)
		if e.started.Load() {
			<-e.doneChan
		}
		zap.L().Info("Feedback exporter stopped")
	})
}

func (e *Exporter) pollLoop(ctx context.Context) {
	defer close(e.doneChan)

	ticker := time.NewTicker(e.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := e.Drain(ctx); err != nil {
				zap.L().Error("Feedback export failed", zap.Error(err))
			}
		case <-e.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Drain exports batches until no new events remain and returns how many
// events were published.
func (e *Exporter) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := e.ExportBatch(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n < e.batchSize {
			return total, nil
		}
	}
}

// ExportBatch publishes at most one batch after the stored cursor. On a
// publish failure the cursor is advanced to the last delivered event and the
// error is returned.
func (e *Exporter) ExportBatch(ctx context.Context) (int, error) {
	cursor, err := e.store.GetExportCursor(ctx, e.cursorName)
	if err != nil {
		return 0, fmt.Errorf("unable to read cursor: %w", err)
	}

	events, err := e.store.ListFeedbackAfter(ctx, cursor, e.batchSize)
	if err != nil {
		return 0, fmt.Errorf("unable to list feedback: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	published := 0
	last := cursor
	var publishErr error
	for _, event := range events {
		if err := e.publisher.Publish(ctx, NewFeedbackMessage(event)); err != nil {
			zap.L().Error("Failed to publish feedback",
				zap.String("id", event.Id),
				zap.Int64("seq", event.Seq),
				zap.Error(err))
			publishErr = fmt.Errorf("publish seq %d: %w", event.Seq, err)
			break
		}
		published++
		last = event.Seq
	}

	if last != cursor {
		if err := e.store.SetExportCursor(ctx, e.cursorName, last); err != nil {
			return published, fmt.Errorf("unable to advance cursor to %d: %w", last, err)
		}
	}

	zap.L().Info("Exported feedback batch",
		zap.Int("published", published),
		zap.Int64("from_seq", cursor),
		zap.Int64("to_seq", last))
	return published, publishErr
}
