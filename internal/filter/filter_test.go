package filter

import (
	"testing"
	"time"

	"spendboard/internal/core"
)

func fixture() []core.Expense {
	return []core.Expense{
		{ID: "1", BankAccountID: "chase", Date: core.NewDate(2025, 11, 28)},
		{ID: "2", BankAccountID: "wells", Date: core.NewDate(2025, 11, 2)},
		{ID: "3", BankAccountID: "chase", Date: core.NewDate(2025, 10, 31)},
		{ID: "4", BankAccountID: "chase", Date: core.NewDate(2024, 11, 15)},
		{ID: "5", BankAccountID: "ghost", Date: core.NewDate(2025, 11, 1)},
	}
}

func ids(items []core.Expense) string {
	var s string
	for _, e := range items {
		s += e.ID
	}
	return s
}

func TestApply(t *testing.T) {
	now := time.Date(2025, 11, 30, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		c    Criteria
		want string
	}{
		{"everything", Criteria{Mode: All}, "12345"},
		{"zero value criteria", Criteria{}, "12345"},
		{"one account", Criteria{AccountID: "chase", Mode: All}, "134"},
		{"current month", Criteria{Mode: Month}, "125"},
		{"account and month", Criteria{AccountID: "chase", Mode: Month}, "1"},
		{"average does not filter", Criteria{Mode: Average}, "12345"},
		{"category does not filter", Criteria{AccountID: "wells", Mode: Category}, "2"},
		{"unknown account", Criteria{AccountID: "nobody"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Apply(fixture(), tt.c, now)); got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyDoesNotAliasInput(t *testing.T) {
	items := fixture()
	out := Apply(items, Criteria{}, time.Now())
	out[0].ID = "changed"
	if items[0].ID != "1" {
		t.Fatalf("Apply must not share backing storage with its input")
	}
	if got := Apply(nil, Criteria{Mode: Month}, time.Now()); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestParseTimeMode(t *testing.T) {
	for in, want := range map[string]TimeMode{"": All, "all": All, "MONTH": Month, " average ": Average, "category": Category} {
		got, err := ParseTimeMode(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v", in, got, err)
		}
	}
	if m, err := ParseTimeMode("week"); err == nil || m != All {
		t.Fatalf("expected error and All fallback, got %q err=%v", m, err)
	}
}

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		account, mode string
		want          Criteria
		wantErr       bool
	}{
		{"", "", Criteria{Mode: All}, false},
		{"all", "month", Criteria{Mode: Month}, false},
		{"ALL", "", Criteria{Mode: All}, false},
		{"chase", "average", Criteria{AccountID: "chase", Mode: Average}, false},
		{"amex", "yearly", Criteria{AccountID: "amex", Mode: All}, true},
	}
	for _, tt := range tests {
		got, err := ParseCriteria(tt.account, tt.mode)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseCriteria(%q, %q) = %+v, %v", tt.account, tt.mode, got, err)
		}
	}
}
