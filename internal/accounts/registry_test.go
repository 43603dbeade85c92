package accounts

import (
	"testing"

	"spendboard/internal/core"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	if r.Len() != 4 {
		t.Fatalf("expected 4 accounts, got %d", r.Len())
	}
	if got := r.TotalBalance().Cents; got != 1274150 {
		t.Fatalf("unexpected total balance %d", got)
	}
	a, ok := r.Lookup("amex")
	if !ok || a.Name != "American Express" || a.Last4 != "1005" {
		t.Fatalf("unexpected lookup: %+v ok=%v", a, ok)
	}
	if ids := []string{r.All()[0].ID, r.All()[3].ID}; ids[0] != "chase" || ids[1] != "citi" {
		t.Fatalf("registration order not preserved: %v", ids)
	}
}

func TestRegistryDanglingAndDuplicates(t *testing.T) {
	r := New(
		core.BankAccount{ID: "a", Name: "First"},
		core.BankAccount{ID: "a", Name: "Second"},
		core.BankAccount{ID: "", Name: "Nameless"},
	)
	if r.Len() != 1 || r.Name("a") != "First" {
		t.Fatalf("duplicates should be ignored: %+v", r.All())
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Fatalf("lookup of unknown id must fail")
	}
	if got := r.Name("missing"); got != "missing" {
		t.Fatalf("unknown id should fall back to itself, got %q", got)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	r := Default()
	list := r.All()
	list[0].Balance = core.Money{}
	if r.All()[0].Balance.IsZero() {
		t.Fatalf("registry must not be mutable through All()")
	}
}
