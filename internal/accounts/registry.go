// Package accounts holds the static registry of bank accounts shown on the
// dashboard. Accounts are reference data: expenses point at them but never
// change their balances.
package accounts

import "spendboard/internal/core"

// AllAccounts is the pseudo account id of the aggregated card.
const AllAccounts = "all"

// Registry is an immutable, ordered list of bank accounts.
type Registry struct {
	list []core.BankAccount
	byID map[string]int
}

// New builds a registry. Later duplicates of an id are ignored.
func New(list ...core.BankAccount) *Registry {
	r := &Registry{byID: make(map[string]int, len(list))}
	for _, a := range list {
		if _, ok := r.byID[a.ID]; ok || a.ID == "" {
			continue
		}
		r.byID[a.ID] = len(r.list)
		r.list = append(r.list, a)
	}
	return r
}

// Default returns the registry with the four sample accounts.
func Default() *Registry {
	return New(
		core.BankAccount{ID: "chase", Name: "Chase Sapphire", Last4: "4829", Balance: core.Money{Cents: 542075}, Color: "blue"},
		core.BankAccount{ID: "amex", Name: "American Express", Last4: "1005", Balance: core.Money{Cents: 328050}, Color: "emerald"},
		core.BankAccount{ID: "wells", Name: "Wells Fargo", Last4: "7234", Balance: core.Money{Cents: 215025}, Color: "orange"},
		core.BankAccount{ID: "citi", Name: "Citi Premier", Last4: "3956", Balance: core.Money{Cents: 189000}, Color: "purple"},
	)
}

// All returns a copy of the accounts in registration order.
func (r *Registry) All() []core.BankAccount {
	return append([]core.BankAccount(nil), r.list...)
}

// Lookup finds an account by id.
func (r *Registry) Lookup(id string) (core.BankAccount, bool) {
	i, ok := r.byID[id]
	if !ok {
		return core.BankAccount{}, false
	}
	return r.list[i], true
}

// Name returns the display name of id, or id itself for unknown accounts.
func (r *Registry) Name(id string) string {
	if a, ok := r.Lookup(id); ok {
		return a.Name
	}
	return id
}

// TotalBalance sums every balance, as shown on the "All Accounts" card.
func (r *Registry) TotalBalance() core.Money {
	var total core.Money
	for _, a := range r.list {
		total = total.Add(a.Balance)
	}
	return total
}

// Len returns the number of accounts.
func (r *Registry) Len() int {
	return len(r.list)
}
