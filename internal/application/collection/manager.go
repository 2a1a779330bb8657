// Package collection provides one CRUD manager shared by every list-shaped
// back-office concept: classes, equipment, cleaning tasks, products and members.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/adapters/storage"
)

// Errors
var (
	ErrNotFound      = errors.New("item not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidPatch  = errors.New("invalid patch")
)

// Entity is implemented by pointers to every managed item type.
type Entity interface {
	GetID() string
	SetID(id string)
	GetStatus() string
	SetStatus(status string)
	Validate() error
}

// Ptr constrains P to be *T implementing Entity.
type Ptr[T any] interface {
	*T
	Entity
}

// Store is the persistence a Manager needs.
// GetByID must wrap storage.ErrNotFound for missing ids.
type Store[T any] interface {
	GetByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	Save(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

// Rules describe one kind of item.
type Rules[T any] struct {
	Kind     string
	Statuses []string
	// Prepare fills defaults on a new item. Optional.
	Prepare func(item *T, now time.Time) error
	// Transition applies the side effects of moving item into status. Optional.
	Transition func(item *T, status string, now time.Time) error
	// SearchFields returns the text free-text search looks at.
	SearchFields func(item T) []string
	// Date returns the day used for bucket filtering. Nil disables buckets.
	Date func(item T) (time.Time, bool)
}

// Manager implements list, add, update, remove and status changes for one kind.
type Manager[T any, P Ptr[T]] struct {
	store Store[T]
	rules Rules[T]
	now   func() time.Time
	newID func() string
}

// Option customises a Manager.
type Option[T any, P Ptr[T]] func(*Manager[T, P])

// WithClock overrides the manager's clock.
func WithClock[T any, P Ptr[T]](now func() time.Time) Option[T, P] {
	return func(m *Manager[T, P]) { m.now = now }
}

// WithIDs overrides id generation.
func WithIDs[T any, P Ptr[T]](newID func() string) Option[T, P] {
	return func(m *Manager[T, P]) { m.newID = newID }
}

// NewManager builds a manager over store.
// PRE: rules.Kind, rules.Statuses and rules.SearchFields are set
func NewManager[T any, P Ptr[T]](store Store[T], rules Rules[T], opts ...Option[T, P]) *Manager[T, P] {
	m := &Manager[T, P]{store: store, rules: rules, now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Kind names the managed item type.
func (m *Manager[T, P]) Kind() string { return m.rules.Kind }

// Statuses lists the valid statuses.
func (m *Manager[T, P]) Statuses() []string { return slices.Clone(m.rules.Statuses) }

// List returns the stored items matching c in store order.
func (m *Manager[T, P]) List(ctx context.Context, c Criteria) ([]T, error) {
	items, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", m.rules.Kind, err)
	}
	return Filter[T, P](items, c, m.rules, m.now()), nil
}

// Get returns one item.
func (m *Manager[T, P]) Get(ctx context.Context, id string) (T, error) {
	item, err := m.store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", m.rules.Kind, id, ErrNotFound)
	}
	return item, err
}

// Add assigns a new id, applies defaults, validates and stores item.
// POST: Returns the stored item; any caller-supplied id is replaced
func (m *Manager[T, P]) Add(ctx context.Context, item T) (T, error) {
	var zero T
	p := P(&item)
	p.SetID(m.newID())
	if m.rules.Prepare != nil {
		if err := m.rules.Prepare(&item, m.now()); err != nil {
			return zero, err
		}
	}
	if err := p.Validate(); err != nil {
		return zero, err
	}
	if err := m.store.Save(ctx, item); err != nil {
		return zero, fmt.Errorf("save %s: %w", m.rules.Kind, err)
	}
	slog.Info("collection_event", "event", "added", "kind", m.rules.Kind, "id", p.GetID())
	return item, nil
}

// Update merges the JSON object patch into the stored item.
// Fields absent from patch keep their values; the id never changes.
// A status change through a patch runs the same transition as SetStatus.
func (m *Manager[T, P]) Update(ctx context.Context, id string, patch json.RawMessage) (T, error) {
	var zero T
	item, err := m.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	before := P(&item).GetStatus()
	if err := json.Unmarshal(patch, &item); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	p := P(&item)
	p.SetID(id)
	if status := p.GetStatus(); status != before {
		p.SetStatus(before)
		if err := m.transition(&item, status); err != nil {
			return zero, err
		}
	}
	if err := p.Validate(); err != nil {
		return zero, err
	}
	if err := m.store.Save(ctx, item); err != nil {
		return zero, fmt.Errorf("save %s: %w", m.rules.Kind, err)
	}
	slog.Info("collection_event", "event", "updated", "kind", m.rules.Kind, "id", id)
	return item, nil
}

// Remove deletes id.
// POST: removing a missing id succeeds
func (m *Manager[T, P]) Remove(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", m.rules.Kind, err)
	}
	slog.Info("collection_event", "event", "removed", "kind", m.rules.Kind, "id", id)
	return nil
}

// SetStatus moves id into status, running the kind's transition rule.
func (m *Manager[T, P]) SetStatus(ctx context.Context, id, status string) (T, error) {
	var zero T
	if !slices.Contains(m.rules.Statuses, status) {
		return zero, fmt.Errorf("%w %q for %s", ErrInvalidStatus, status, m.rules.Kind)
	}
	item, err := m.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := m.transition(&item, status); err != nil {
		return zero, err
	}
	if err := m.store.Save(ctx, item); err != nil {
		return zero, fmt.Errorf("save %s: %w", m.rules.Kind, err)
	}
	slog.Info("collection_event", "event", "status_changed", "kind", m.rules.Kind, "id", id, "status", status)
	return item, nil
}

func (m *Manager[T, P]) transition(item *T, status string) error {
	if !slices.Contains(m.rules.Statuses, status) {
		return fmt.Errorf("%w %q for %s", ErrInvalidStatus, status, m.rules.Kind)
	}
	if m.rules.Transition != nil {
		if err := m.rules.Transition(item, status, m.now()); err != nil {
			return err
		}
	}
	P(item).SetStatus(status)
	return nil
}
