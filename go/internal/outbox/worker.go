package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Repository is what the relay needs inside its transaction
type Repository interface {
	FetchUnsentOutbox(ctx context.Context, limit int) ([]Event, error)
	MarkOutboxSent(ctx context.Context, id uuid.UUID) error
}

// TxFunc runs fn in one transaction; claimed rows stay locked until it returns.
type TxFunc func(ctx context.Context, fn func(Repository) error) error

type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 2 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// Worker relays committed cap events to the publisher.
type Worker struct {
	inTx      TxFunc
	publisher Publisher
	config    Config
	clock     clockwork.Clock

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(inTx TxFunc, publisher Publisher, cfg Config, clock clockwork.Clock) *Worker {
	return &Worker{
		inTx:      inTx,
		publisher: publisher,
		config:    cfg,
		clock:     clock,
		stopChan:  make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int("batch_size", w.config.BatchSize).
		Msg("outbox worker started")
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.processOutbox(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.Chan():
			w.processOutbox(ctx)
		}
	}
}

// ProcessOnce relays one batch and reports how many events were marked sent.
func (w *Worker) ProcessOnce(ctx context.Context) (int, error) {
	sent := 0
	var total int
	err := w.inTx(ctx, func(r Repository) error {
		events, err := r.FetchUnsentOutbox(ctx, w.config.BatchSize)
		if err != nil {
			return err
		}
		total = len(events)

		for _, event := range events {
			if err := w.publishWithRetry(ctx, event); err != nil {
				log.Error().Err(err).
					Str("event_id", event.ID.String()).
					Str("event_type", event.EventType).
					Msg("failed to publish event")
				continue
			}
			if err := r.MarkOutboxSent(ctx, event.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to process outbox: %w", err)
	}
	if total > 0 {
		log.Info().Int("total", total).Int("successful", sent).Msg("processed outbox events")
	}
	return sent, nil
}

func (w *Worker) processOutbox(ctx context.Context) {
	if _, err := w.ProcessOnce(ctx); err != nil {
		log.Error().Err(err).Msg("outbox poll failed")
	}
}

// publishWithRetry retries each target on its own, so a target that already
// accepted the event is not sent it again when a later one fails.
func (w *Worker) publishWithRetry(ctx context.Context, event Event) error {
	targets := []Publisher{w.publisher}
	if ps, ok := w.publisher.(Publishers); ok {
		targets = ps
	}
	pending := make([]Publisher, len(targets))
	copy(pending, targets)

	var lastErr error
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.clock.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		failed := pending[:0]
		for _, p := range pending {
			if err := p.Publish(ctx, event); err != nil {
				lastErr = err
				failed = append(failed, p)
				log.Warn().Err(err).
					Str("event_id", event.ID.String()).
					Int("attempt", attempt+1).
					Msg("failed to publish event, retrying")
			}
		}
		pending = failed
		if len(pending) == 0 {
			return nil
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
