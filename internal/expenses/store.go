// Package expenses implements the expense store: the single owner of the
// expense collection. Callers mutate it only through Add and Delete and
// can subscribe to the resulting changes.
package expenses

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"spendboard/internal/core"
	"spendboard/internal/log"
)

// EventType names a change to the collection.
type EventType string

const (
	EventAdded   EventType = "expense.added"
	EventDeleted EventType = "expense.deleted"
)

// Event describes one effective change.
type Event struct {
	Type    EventType
	Expense core.Expense
}

// Observer receives store events. It runs synchronously after the change
// has been committed.
type Observer func(ctx context.Context, ev Event)

// Store wraps a Repository with validation, id assignment and change
// notification.
type Store struct {
	repo   Repository
	newID  func() string
	logger *log.Logger
	limit  int

	// addMu serializes the size check with the insert.
	addMu sync.Mutex

	mu        sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc replaces the id generator (uuid v4 by default).
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLimit caps the number of held expenses (core.MaxExpenses by
// default). Values above the default are ignored.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 && n < core.MaxExpenses {
			s.limit = n
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		newID:     uuid.NewString,
		logger:    log.Discard(),
		limit:     core.MaxExpenses,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates in, assigns a fresh id and prepends the expense. A
// validation failure leaves the collection untouched and returns an error
// wrapping core.ErrValidation. A full collection fails with
// core.ErrCollectionFull.
func (s *Store) Add(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	e, err := in.Parse()
	if err != nil {
		s.logger.DebugContext(ctx, "Expense rejected", log.FieldError, err)
		return core.Expense{}, err
	}

	s.addMu.Lock()
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.addMu.Unlock()
		return core.Expense{}, fmt.Errorf("count expenses: %w", err)
	}
	if n >= s.limit {
		s.addMu.Unlock()
		s.logger.WarnContext(ctx, "Expense rejected: collection full", "count", n)
		return core.Expense{}, core.ErrCollectionFull
	}
	e.ID = s.newID()
	err = s.repo.Insert(ctx, e)
	s.addMu.Unlock()
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	s.logger.InfoContext(ctx, "Expense added", log.NewFields().WithExpense(e).WithOperation(log.OpCreate).ToSlice()...)
	s.notify(ctx, Event{Type: EventAdded, Expense: e})
	return e, nil
}

// Delete removes the expense with the given id and reports whether it was
// held. Deleting an id that is not held is a no-op.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list expenses: %w", err)
	}
	var victim core.Expense
	for _, e := range items {
		if e.ID == id {
			victim = e
			break
		}
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete expense %s: %w", id, err)
	}
	if !removed {
		s.logger.DebugContext(ctx, "Delete of unknown expense ignored", log.FieldExpenseID, id)
		return false, nil
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldExpenseID, id, log.FieldOperation, log.OpDelete)
	s.notify(ctx, Event{Type: EventDeleted, Expense: victim})
	return true, nil
}

// List returns a copy of the collection, most recent first.
func (s *Store) List(ctx context.Context) ([]core.Expense, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return items, nil
}

// Subscribe registers fn for future events and returns a function that
// removes it.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) notify(ctx context.Context, ev Event) {
	s.mu.Lock()
	obs := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if fn, ok := s.observers[i]; ok {
			obs = append(obs, fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range obs {
		fn(ctx, ev)
	}
}
