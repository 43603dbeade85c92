// Package filter narrows the expense collection to what the dashboard is
// currently looking at: one account (or all of them) and a time window.
package filter

import (
	"fmt"
	"strings"
	"time"

	"spendboard/internal/accounts"
	"spendboard/internal/core"
)

// TimeMode is the summary card the user selected. Only Month restricts the
// data; Average and Category merely highlight their card.
type TimeMode string

const (
	All      TimeMode = "all"
	Month    TimeMode = "month"
	Average  TimeMode = "average"
	Category TimeMode = "category"
)

// Modes returns every time mode in card order.
func Modes() []TimeMode {
	return []TimeMode{All, Month, Average, Category}
}

// ParseTimeMode accepts the mode names case-insensitively. Empty means All.
func ParseTimeMode(s string) (TimeMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return All, nil
	}
	for _, m := range Modes() {
		if s == string(m) {
			return m, nil
		}
	}
	return All, fmt.Errorf("unknown time mode %q", s)
}

func (m TimeMode) String() string {
	return string(m)
}

// Criteria is the current dashboard selection. An empty AccountID selects
// every account.
type Criteria struct {
	AccountID string   `json:"accountId,omitempty"`
	Mode      TimeMode `json:"mode"`
}

// ParseCriteria builds Criteria from query-style values. The account
// "all" and the empty string both select every account. An unknown mode
// falls back to All and is reported.
func ParseCriteria(account, mode string) (Criteria, error) {
	account = strings.TrimSpace(account)
	if strings.EqualFold(account, accounts.AllAccounts) {
		account = ""
	}
	m, err := ParseTimeMode(mode)
	return Criteria{AccountID: account, Mode: m}, err
}

// Apply returns the expenses matching c, in their original order. It never
// modifies items.
func Apply(items []core.Expense, c Criteria, now time.Time) []core.Expense {
	out := make([]core.Expense, 0, len(items))
	for _, e := range items {
		if c.AccountID != "" && e.BankAccountID != c.AccountID {
			continue
		}
		if c.Mode == Month && !e.Date.SameMonth(now) {
			continue
		}
		out = append(out, e)
	}
	return out
}
