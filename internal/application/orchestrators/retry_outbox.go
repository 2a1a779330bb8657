package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "gymdesk/internal/domain/outbox"
)

// OutboxStore is what the replay processor reads and writes.
type OutboxStore interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
}

// ActionExecutor replays one kind of deferred side effect.
// Execute returns the id the remote side assigned.
type ActionExecutor interface {
	Execute(ctx context.Context, payload string) (string, error)
}

// ErrEntryTerminal is returned when an admin retries a done or abandoned entry.
var ErrEntryTerminal = domain.ErrTerminal

// Replay pacing for the background worker.
const (
	replayBaseDelay = 30 * time.Second
	replayMaxDelay  = time.Hour
	replayBatch     = 10
	replayPassLimit = 5 * time.Minute
)

// OutboxProcessor replays partner registrations and emails that failed inline.
type OutboxProcessor struct {
	store     OutboxStore
	executors map[string]ActionExecutor
	now       func() time.Time
}

// NewOutboxProcessor routes each entry to the executor registered for its ActionType.
func NewOutboxProcessor(store OutboxStore, executors map[string]ActionExecutor) *OutboxProcessor {
	return &OutboxProcessor{store: store, executors: executors, now: time.Now}
}

// WithClock replaces the processor's time source.
func (p *OutboxProcessor) WithClock(now func() time.Time) *OutboxProcessor {
	p.now = now
	return p
}

// ProcessPending attempts every entry in the next batch whose backoff has elapsed.
// POST: returns the number of entries attempted; per-entry failures are logged, not returned
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (int, error) {
	batch, err := p.store.ListPending(ctx, replayBatch)
	if err != nil {
		return 0, fmt.Errorf("list pending outbox entries: %w", err)
	}
	now := p.now()
	attempted := 0
	for _, entry := range batch {
		if !entry.CanRetry() || entry.DueAt(replayBaseDelay, replayMaxDelay).After(now) {
			continue
		}
		attempted++
		if err := p.attempt(ctx, &entry, now); err != nil {
			slog.Error("outbox_replay_save_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err)
		}
	}
	return attempted, nil
}

// ProcessSingle replays one entry now regardless of backoff.
// PRE: entryID names an existing entry
// POST: the stored entry after the attempt is returned
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get outbox entry: %w", err)
	}
	if err := entry.Reopen(); err != nil {
		return entry, err
	}
	if err := p.attempt(ctx, &entry, p.now()); err != nil {
		return domain.Entry{}, err
	}
	return p.store.GetByID(ctx, entryID)
}

// AbandonEntry closes an entry so nothing replays it again.
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	entry.MarkAbandoned()
	slog.Info("outbox_entry_abandoned", "entry_id", entry.ID, "action_type", entry.ActionType, "attempts", entry.Attempts)
	return p.store.Save(ctx, entry)
}

// attempt runs the executor once and persists the outcome.
// POST: Attempts incremented; Status is done on success
func (p *OutboxProcessor) attempt(ctx context.Context, entry *domain.Entry, now time.Time) error {
	entry.MarkAttempt(now)
	exec, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkFailed(fmt.Errorf("no executor for action %q", entry.ActionType))
		return p.store.Save(ctx, *entry)
	}

	externalID, err := exec.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_replay_failed", "entry_id", entry.ID, "action_type", entry.ActionType,
			"attempt", entry.Attempts, "max_attempts", entry.MaxAttempts, "error", err)
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_replayed", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, *entry)
}

// StartBackgroundWorker runs ProcessPending every interval until ctx ends.
// PRE: interval > 0
// POST: the returned channel closes once the worker has exited
func StartBackgroundWorker(ctx context.Context, processor *OutboxProcessor, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("outbox_worker_stopped")
				return
			case <-ticker.C:
				replayOnce(ctx, processor)
			}
		}
	}()
	return done
}

func replayOnce(ctx context.Context, processor *OutboxProcessor) {
	passCtx, cancel := context.WithTimeout(ctx, replayPassLimit)
	defer cancel()
	n, err := processor.ProcessPending(passCtx)
	switch {
	case err != nil:
		slog.Error("outbox_worker_pass_failed", "error", err)
	case n > 0:
		slog.Info("outbox_worker_pass", "attempted", n)
	}
}
