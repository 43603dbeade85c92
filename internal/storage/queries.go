package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type ExpenseRow struct {
	Seq           int64
	ID            string
	Description   string
	AmountCents   int64
	Category      string
	Date          string
	BankAccountID string
}

type InsertExpenseParams struct {
	ID            string
	Description   string
	AmountCents   int64
	Category      string
	Date          string
	BankAccountID string
}

const insertExpense = `
INSERT INTO expenses (id, description, amount_cents, category, date, bank_account_id)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertExpense(ctx context.Context, arg InsertExpenseParams) error {
	_, err := q.db.ExecContext(ctx, insertExpense,
		arg.ID,
		arg.Description,
		arg.AmountCents,
		arg.Category,
		arg.Date,
		arg.BankAccountID,
	)
	return err
}

const deleteExpense = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listExpenses = `
SELECT seq, id, description, amount_cents, category, date, bank_account_id
FROM expenses
ORDER BY seq DESC
`

func (q *Queries) ListExpenses(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseRow
	for rows.Next() {
		var i ExpenseRow
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.Description,
			&i.AmountCents,
			&i.Category,
			&i.Date,
			&i.BankAccountID,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countExpenses = `SELECT COUNT(*) FROM expenses`

func (q *Queries) CountExpenses(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countExpenses).Scan(&n)
	return n, err
}
