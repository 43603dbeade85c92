package http

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"spendboard/internal/analytics"
	"spendboard/internal/core"
	"spendboard/internal/filter"
)

// minBarWidth keeps small non-zero values visible.
const minBarWidth = 2

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// criteriaFromValues reads the account and mode selection. Unknown modes
// fall back to all.
func criteriaFromValues(v url.Values) filter.Criteria {
	c, _ := filter.ParseCriteria(sanitizeInput(v.Get("account")), sanitizeInput(v.Get("mode")))
	return c
}

// dashboardQuery builds the query string that reproduces a selection.
func dashboardQuery(c filter.Criteria) string {
	q := url.Values{}
	if c.AccountID != "" {
		q.Set("account", c.AccountID)
	}
	if c.Mode != "" && c.Mode != filter.All {
		q.Set("mode", string(c.Mode))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// isHTMX reports whether the request came from an hx-* attribute.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// barWidth is part as a rounded percentage of peak.
func barWidth(part, peak int64) int {
	if peak <= 0 || part <= 0 {
		return 0
	}
	w := int(decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(peak)).Round(0).IntPart())
	if w < minBarWidth {
		return minBarWidth
	}
	return w
}

// Bar is one row of an HTML bar chart.
type Bar struct {
	Label  string
	Title  string
	Amount core.Money
	Share  decimal.Decimal
	Width  int
}

func categoryBars(items []core.CategoryAmount) []Bar {
	var peak int64
	for _, c := range items {
		if c.Amount.Cents > peak {
			peak = c.Amount.Cents
		}
	}
	bars := make([]Bar, 0, len(items))
	for _, c := range items {
		bars = append(bars, Bar{
			Label:  string(c.Category),
			Title:  string(c.Category),
			Amount: c.Amount,
			Share:  c.Share,
			Width:  barWidth(c.Amount.Cents, peak),
		})
	}
	return bars
}

func trendBars(points []core.DayAmount) []Bar {
	var peak int64
	for _, p := range points {
		if p.Amount.Cents > peak {
			peak = p.Amount.Cents
		}
	}
	bars := make([]Bar, 0, len(points))
	for _, p := range points {
		bars = append(bars, Bar{
			Label:  p.Label,
			Title:  p.Label,
			Amount: p.Amount,
			Width:  barWidth(p.Amount.Cents, peak),
		})
	}
	return bars
}

func expenseBars(items []core.Expense) []Bar {
	var peak int64
	for _, e := range items {
		if e.Amount.Cents > peak {
			peak = e.Amount.Cents
		}
	}
	bars := make([]Bar, 0, len(items))
	for _, e := range items {
		bars = append(bars, Bar{
			Label:  analytics.ChartLabel(e.Description),
			Title:  e.Description,
			Amount: e.Amount,
			Width:  barWidth(e.Amount.Cents, peak),
		})
	}
	return bars
}

var hundred = decimal.NewFromInt(100)

func (s *Server) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money":   func(m core.Money) string { return m.Format(s.currency) },
		"decimal": func(d decimal.Decimal) string { return core.FormatDecimal(d, s.currency) },
		"percent": func(d decimal.Decimal) string { return d.Mul(hundred).StringFixed(1) + "%" },
		"query":   dashboardQuery,
		"withAccount": func(c filter.Criteria, id string) filter.Criteria {
			c.AccountID = id
			return c
		},
		"withMode": func(c filter.Criteria, m filter.TimeMode) filter.Criteria {
			c.Mode = m
			return c
		},
	}
}
