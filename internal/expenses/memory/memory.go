// Package memory is the default, slice-backed expense repository.
package memory

import (
	"context"
	"sync"

	"spendboard/internal/core"
)

type Repository struct {
	mu    sync.Mutex
	items []core.Expense
}

func New() *Repository {
	return &Repository{}
}

// Insert prepends e.
func (r *Repository) Insert(_ context.Context, e core.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]core.Expense{e}, r.items...)
	return nil
}

// Delete removes the first entry with the given id.
func (r *Repository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.items {
		if e.ID == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// List returns a copy of the held expenses.
func (r *Repository) List(_ context.Context) ([]core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Expense(nil), r.items...), nil
}

func (r *Repository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}
