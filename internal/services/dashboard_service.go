// Package services exposes the dashboard operations to the presentation
// layers. Every read recomputes its figures from the current collection.
package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"spendboard/internal/accounts"
	"spendboard/internal/analytics"
	"spendboard/internal/core"
	"spendboard/internal/expenses"
	"spendboard/internal/filter"
	"spendboard/internal/log"
)

// UploadKind names one of the inert import affordances.
type UploadKind string

const (
	UploadSpreadsheet UploadKind = "spreadsheet"
	UploadReceipt     UploadKind = "receipt"
)

var (
	ErrUnknownUpload = errors.New("unknown upload kind")
	ErrNoFile        = errors.New("no file selected")
)

// View is everything one dashboard render needs.
type View struct {
	Accounts     []core.BankAccount `json:"accounts"`
	TotalBalance core.Money         `json:"totalBalance"`
	Criteria     filter.Criteria    `json:"criteria"`
	Expenses     []core.Expense     `json:"expenses"`
	Summary      analytics.Summary  `json:"summary"`
	Series       analytics.Series   `json:"series"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	Registry     *accounts.Registry `json:"-"`
}

// SelectedAccount returns the account the view is filtered by, if any.
func (v View) SelectedAccount() (core.BankAccount, bool) {
	if v.Criteria.AccountID == "" || v.Registry == nil {
		return core.BankAccount{}, false
	}
	return v.Registry.Lookup(v.Criteria.AccountID)
}

// AccountName resolves an expense's account id for display.
func (v View) AccountName(id string) string {
	if v.Registry == nil {
		return id
	}
	return v.Registry.Name(id)
}

type DashboardService struct {
	store    *expenses.Store
	registry *accounts.Registry
	now      func() time.Time
	logger   *log.Logger
}

type Option func(*DashboardService)

// WithClock replaces time.Now, which decides the current month.
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *DashboardService) { s.logger = l.WithComponent(log.ComponentDashboard) }
}

func NewDashboardService(store *expenses.Store, registry *accounts.Registry, opts ...Option) *DashboardService {
	s := &DashboardService{
		store:    store,
		registry: registry,
		now:      time.Now,
		logger:   log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DashboardService) Accounts() []core.BankAccount {
	return s.registry.All()
}

func (s *DashboardService) Registry() *accounts.Registry {
	return s.registry
}

func (s *DashboardService) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	return s.store.Add(ctx, in)
}

// DeleteExpense reports whether an expense was removed.
func (s *DashboardService) DeleteExpense(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

// FilteredExpenses lists the expenses selected by c, most recent first.
func (s *DashboardService) FilteredExpenses(ctx context.Context, c filter.Criteria) ([]core.Expense, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(items, c, s.now()), nil
}

func (s *DashboardService) Summary(ctx context.Context, c filter.Criteria) (analytics.Summary, error) {
	items, err := s.FilteredExpenses(ctx, c)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.ComputeSummary(items, s.now()), nil
}

func (s *DashboardService) Series(ctx context.Context, c filter.Criteria) (analytics.Series, error) {
	items, err := s.FilteredExpenses(ctx, c)
	if err != nil {
		return analytics.Series{}, err
	}
	return analytics.ComputeSeries(items), nil
}

// View filters once and derives every figure from that one snapshot.
func (s *DashboardService) View(ctx context.Context, c filter.Criteria) (View, error) {
	now := s.now()
	items, err := s.store.List(ctx)
	if err != nil {
		return View{}, err
	}
	filtered := filter.Apply(items, c, now)

	s.logger.DebugContext(ctx, "Dashboard computed",
		log.NewFields().WithFilter(c.AccountID, string(c.Mode)).ToSlice()...)

	return View{
		Accounts:     s.registry.All(),
		TotalBalance: s.registry.TotalBalance(),
		Criteria:     c,
		Expenses:     filtered,
		Summary:      analytics.ComputeSummary(filtered, now),
		Series:       analytics.ComputeSeries(filtered),
		GeneratedAt:  now,
		Registry:     s.registry,
	}, nil
}

// AcknowledgeUpload accepts a spreadsheet or receipt upload by name only
// and returns the confirmation shown to the user. The file content is
// never read and no expenses are created.
func (s *DashboardService) AcknowledgeUpload(ctx context.Context, kind UploadKind, filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", ErrNoFile
	}

	var msg string
	switch kind {
	case UploadSpreadsheet:
		msg = fmt.Sprintf("Excel file %q uploaded successfully! (This is a demo - file parsing would happen here)", name)
	case UploadReceipt:
		msg = "Receipt image captured! (This is a demo - OCR would extract expense data here)"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUpload, kind)
	}

	s.logger.InfoContext(ctx, "Upload acknowledged",
		log.FieldFilename, name,
		"kind", kind,
		log.FieldOperation, log.OpUpload)
	return msg, nil
}
