package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"spendboard/internal/accounts"
	"spendboard/internal/expenses"
	"spendboard/internal/expenses/memory"
	"spendboard/internal/filter"
	"spendboard/internal/services"
)

func testView(t *testing.T, c filter.Criteria) services.View {
	t.Helper()
	repo := memory.New()
	if err := expenses.Seed(context.Background(), repo, expenses.SampleExpenses()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	svc := services.NewDashboardService(expenses.NewStore(repo), accounts.Default(),
		services.WithClock(func() time.Time { return time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC) }))
	v, err := svc.View(context.Background(), c)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	return v
}

func TestDashboardReport(t *testing.T) {
	r, err := New("EUR")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.DashboardString(testView(t, filter.Criteria{Mode: filter.All}))
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	for _, want := range []string{
		"Account: **All Accounts**",
		"## Top 5 Expenses",
		"1. Grocery Shopping",
		"507.48",
		"| Food |",
		"| 11/28 |",
		"Chase Sapphire",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestDashboardReportSingleAccount(t *testing.T) {
	r, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.DashboardString(testView(t, filter.Criteria{AccountID: "amex"}))
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if !strings.Contains(out, "**American Express** (•••• •••• •••• 1005)") {
		t.Errorf("missing account header:\n%s", out)
	}
	if strings.Contains(out, "Grocery Shopping") {
		t.Errorf("chase expense leaked into amex report")
	}
}

func TestDashboardReportEmpty(t *testing.T) {
	r, _ := New("USD")
	out, err := r.DashboardString(testView(t, filter.Criteria{AccountID: "nobody"}))
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if !strings.Contains(out, "No expenses match") || !strings.Contains(out, "| N/A |") {
		t.Errorf("unexpected empty report:\n%s", out)
	}
}

func TestSections(t *testing.T) {
	r, err := New("EUR")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := testView(t, filter.Criteria{Mode: filter.All})

	var b strings.Builder
	if err := r.Sections(&b, v, "accounts"); err != nil {
		t.Fatalf("Sections: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "| Wells Fargo | •••• •••• •••• 7234 |") || !strings.Contains(out, "**All Accounts**") {
		t.Errorf("accounts section:\n%s", out)
	}
	if strings.Contains(out, "## Summary") {
		t.Errorf("only the accounts section was asked for:\n%s", out)
	}

	b.Reset()
	if err := r.Sections(&b, v, "selection", "transactions"); err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if !strings.Contains(b.String(), "Account: **All Accounts**") || !strings.Contains(b.String(), "| Online Course |") {
		t.Errorf("transactions section:\n%s", b.String())
	}

	if err := r.Sections(&b, v, "footer"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}
