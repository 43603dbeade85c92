package analytics

import (
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"spendboard/internal/core"
)

// CategoryTotals maps categories to summed amounts, remembering the order
// in which each category first appeared.
type CategoryTotals struct {
	order []core.Category
	sums  map[core.Category]int64
}

// NewCategoryTotals returns an empty mapping.
func NewCategoryTotals() *CategoryTotals {
	return &CategoryTotals{sums: make(map[core.Category]int64)}
}

// TotalsByCategory sums items per category.
func TotalsByCategory(items []core.Expense) *CategoryTotals {
	t := NewCategoryTotals()
	for _, e := range items {
		t.Add(e.Category, e.Amount)
	}
	return t
}

func (t *CategoryTotals) Add(c core.Category, m core.Money) {
	if _, ok := t.sums[c]; !ok {
		t.order = append(t.order, c)
	}
	t.sums[c] += m.Cents
}

// Get returns the total for c and whether c was seen.
func (t *CategoryTotals) Get(c core.Category) (core.Money, bool) {
	cents, ok := t.sums[c]
	return core.Money{Cents: cents}, ok
}

func (t *CategoryTotals) Len() int {
	return len(t.order)
}

// Sum is the total over every category.
func (t *CategoryTotals) Sum() core.Money {
	var cents int64
	for _, v := range t.sums {
		cents += v
	}
	return core.Money{Cents: cents}
}

// Entries lists the totals in first-occurrence order, with each
// category's share of the whole.
func (t *CategoryTotals) Entries() []core.CategoryAmount {
	sum := t.Sum()
	out := make([]core.CategoryAmount, 0, len(t.order))
	for _, c := range t.order {
		amount := core.Money{Cents: t.sums[c]}
		out = append(out, core.CategoryAmount{Category: c, Amount: amount, Share: share(amount, sum)})
	}
	return out
}

// Ranked lists the totals from largest to smallest. Equal totals keep
// their first-occurrence order.
func (t *CategoryTotals) Ranked() []core.CategoryAmount {
	out := t.Entries()
	slices.SortStableFunc(out, func(a, b core.CategoryAmount) int {
		return compareDesc(a.Amount.Cents, b.Amount.Cents)
	})
	return out
}

func share(part, whole core.Money) decimal.Decimal {
	if whole.Cents == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part.Cents).Div(decimal.NewFromInt(whole.Cents))
}

// DailyTotals maps a month/day to summed amounts. Expenses on the same
// month and day of different years land in the same bucket.
type DailyTotals struct {
	sums map[core.DayKey]int64
}

// TotalsByDay sums items per month/day.
func TotalsByDay(items []core.Expense) *DailyTotals {
	t := &DailyTotals{sums: make(map[core.DayKey]int64)}
	for _, e := range items {
		t.sums[core.DayKey{Month: e.Date.Month(), Day: e.Date.Day()}] += e.Amount.Cents
	}
	return t
}

// Get returns the total for a month and day.
func (t *DailyTotals) Get(month, day int) (core.Money, bool) {
	cents, ok := t.sums[core.DayKey{Month: month, Day: day}]
	return core.Money{Cents: cents}, ok
}

func (t *DailyTotals) Len() int {
	return len(t.sums)
}

// Sorted lists the buckets ascending by (month, day).
func (t *DailyTotals) Sorted() []core.DayAmount {
	out := make([]core.DayAmount, 0, len(t.sums))
	for k, v := range t.sums {
		out = append(out, core.DayAmount{Key: k, Label: DayLabel(k), Amount: core.Money{Cents: v}})
	}
	slices.SortFunc(out, func(a, b core.DayAmount) int {
		if a.Key.Month != b.Key.Month {
			return a.Key.Month - b.Key.Month
		}
		return a.Key.Day - b.Key.Day
	})
	return out
}

// DayLabel formats a key as "M/D" without zero padding.
func DayLabel(k core.DayKey) string {
	return strconv.Itoa(k.Month) + "/" + strconv.Itoa(k.Day)
}

func compareDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
