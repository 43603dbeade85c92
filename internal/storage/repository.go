// Package storage keeps expenses in SQLite. Only in-memory databases are
// accepted: the dashboard state lives for one process session.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"spendboard/internal/core"
	"spendboard/internal/log"

	_ "modernc.org/sqlite"
)

// DefaultDSN names a shared-cache in-memory database.
const DefaultDSN = "file:spendboard?mode=memory&cache=shared"

// ErrNotInMemory is returned for a DSN that would write to disk.
var ErrNotInMemory = errors.New("sqlite dsn must be in-memory")

// IsMemoryDSN reports whether dsn opens an in-memory database.
func IsMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

// NewSQLiteRepository opens dsn and migrates it. The pool holds a single
// connection that never expires, so private databases such as ":memory:"
// keep their schema and rows for the life of the repository.
func NewSQLiteRepository(dsn string, logger *log.Logger) (*SQLiteRepository, error) {
	if !IsMemoryDSN(dsn) {
		return nil, fmt.Errorf("%w: %q", ErrNotInMemory, dsn)
	}
	if logger == nil {
		logger = log.Discard()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The database disappears with its last connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the connection; used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) error {
	err := r.queries.InsertExpense(ctx, InsertExpenseParams{
		ID:            e.ID,
		Description:   e.Description,
		AmountCents:   e.Amount.Cents,
		Category:      string(e.Category),
		Date:          e.Date.String(),
		BankAccountID: e.BankAccountID,
	})
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	r.logger.DebugContext(ctx, "Expense saved to SQLite",
		log.FieldExpenseID, e.ID,
		log.FieldAmountCents, e.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := row.toExpense()
		if err != nil {
			return nil, fmt.Errorf("decode expense %s: %w", row.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Count returns the number of stored expenses.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return int(n), nil
}

func (row ExpenseRow) toExpense() (core.Expense, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:            row.ID,
		Description:   row.Description,
		Amount:        core.Money{Cents: row.AmountCents},
		Category:      core.Category(row.Category),
		Date:          date,
		BankAccountID: row.BankAccountID,
	}, nil
}
