package expenses

import (
	"context"

	"spendboard/internal/core"
)

// Repository is the storage port behind the Store. Implementations keep
// expenses most-recent-first: Insert puts the new entry in front.
type Repository interface {
	Insert(ctx context.Context, e core.Expense) error
	// Delete removes the entry with the given id and reports whether one
	// was present.
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]core.Expense, error)
	Count(ctx context.Context) (int, error)
}

// Seed loads items into repo so that List returns them in the given order.
func Seed(ctx context.Context, repo Repository, items []core.Expense) error {
	for i := len(items) - 1; i >= 0; i-- {
		if err := repo.Insert(ctx, items[i]); err != nil {
			return err
		}
	}
	return nil
}
