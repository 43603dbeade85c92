// Package analytics derives the dashboard figures from a filtered list of
// expenses. Every function is pure, accepts an empty list and works on
// integer cents; the only non-integral result is the average, which stays
// an exact decimal until it is formatted.
package analytics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"spendboard/internal/core"
)

// NoCategory is reported as the top category of an empty list.
const NoCategory = "N/A"

// TopCount is how many expenses the top-expenses chart shows.
const TopCount = 5

// labelLimit is the longest description shown as a chart label.
const labelLimit = 20

// Summary feeds the four summary cards.
type Summary struct {
	Count        int             `json:"count"`
	Total        core.Money      `json:"total"`
	MonthlyTotal core.Money      `json:"monthlyTotal"`
	Average      decimal.Decimal `json:"average"`
	TopCategory  string          `json:"topCategory"`
}

// Series feeds the four charts.
type Series struct {
	CategoryTotals  []core.CategoryAmount `json:"categoryTotals"`
	DailyTrend      []core.DayAmount      `json:"dailyTrend"`
	Top             []core.Expense        `json:"top"`
	CategoryRanking []core.CategoryAmount `json:"categoryRanking"`
}

// ComputeSummary aggregates items. now decides which month counts as the
// current one.
func ComputeSummary(items []core.Expense, now time.Time) Summary {
	return Summary{
		Count:        len(items),
		Total:        Total(items),
		MonthlyTotal: MonthlyTotal(items, now),
		Average:      Average(items),
		TopCategory:  TopCategory(items),
	}
}

// ComputeSeries builds every chart series from items.
func ComputeSeries(items []core.Expense) Series {
	cats := TotalsByCategory(items)
	return Series{
		CategoryTotals:  cats.Entries(),
		DailyTrend:      TotalsByDay(items).Sorted(),
		Top:             TopN(items, TopCount),
		CategoryRanking: cats.Ranked(),
	}
}

func Total(items []core.Expense) core.Money {
	var total core.Money
	for _, e := range items {
		total = total.Add(e.Amount)
	}
	return total
}

// MonthlyTotal sums the items dated in now's calendar month and year.
func MonthlyTotal(items []core.Expense, now time.Time) core.Money {
	var total core.Money
	for _, e := range items {
		if e.Date.SameMonth(now) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Average returns total/count in major units, or zero for no items.
func Average(items []core.Expense) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	return Total(items).Decimal().Div(decimal.NewFromInt(int64(len(items))))
}

// TopCategory names the category with the largest total. On a tie the
// category that appeared first wins.
func TopCategory(items []core.Expense) string {
	ranked := TotalsByCategory(items).Ranked()
	if len(ranked) == 0 {
		return NoCategory
	}
	return string(ranked[0].Category)
}

// TopN returns the n largest expenses, largest first. Equal amounts keep
// their original relative order.
func TopN(items []core.Expense, n int) []core.Expense {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b core.Expense) int {
		return compareDesc(a.Amount.Cents, b.Amount.Cents)
	})
	if n < 0 {
		n = 0
	}
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []core.Expense{}
	}
	return out
}

// CategoryRanking returns category totals, largest first.
func CategoryRanking(items []core.Expense) []core.CategoryAmount {
	return TotalsByCategory(items).Ranked()
}

// ChartLabel shortens a description for a chart axis.
func ChartLabel(desc string) string {
	r := []rune(desc)
	if len(r) <= labelLimit {
		return desc
	}
	return string(r[:labelLimit]) + "..."
}
