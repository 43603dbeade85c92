// Package report renders a dashboard view as markdown, for the terminal
// client and the /report.md endpoint.
package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"text/template"

	"github.com/shopspring/decimal"

	"spendboard/internal/analytics"
	"spendboard/internal/core"
	"spendboard/internal/services"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var hundred = decimal.NewFromInt(100)

var ErrUnknownSection = errors.New("unknown report section")

// Renderer formats money in one currency.
type Renderer struct {
	currency string
	tmpl     *template.Template
}

func New(currency string) (*Renderer, error) {
	if currency == "" {
		currency = core.DefaultCurrency
	}
	r := &Renderer{currency: currency}
	tmpl, err := template.New("dashboard.md.tmpl").Funcs(r.funcs()).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

type reportData struct {
	View     services.View
	Selected *core.BankAccount
}

// Dashboard writes the markdown report for v.
func (r *Renderer) Dashboard(w io.Writer, v services.View) error {
	data := reportData{View: v}
	if acct, ok := v.SelectedAccount(); ok {
		data.Selected = &acct
	}
	return r.tmpl.ExecuteTemplate(w, "dashboard.md.tmpl", data)
}

// Sections writes the named sections of the report, in order: selection,
// accounts, summary, charts or transactions.
func (r *Renderer) Sections(w io.Writer, v services.View, names ...string) error {
	data := reportData{View: v}
	if acct, ok := v.SelectedAccount(); ok {
		data.Selected = &acct
	}
	for i, name := range names {
		if !slices.Contains(SectionNames(), name) {
			return fmt.Errorf("%w: %q", ErrUnknownSection, name)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
			return err
		}
	}
	return nil
}

// SectionNames lists the sections Sections accepts.
func SectionNames() []string {
	return []string{"selection", "accounts", "summary", "charts", "transactions"}
}

// DashboardString is Dashboard into a string.
func (r *Renderer) DashboardString(v services.View) (string, error) {
	var buf bytes.Buffer
	if err := r.Dashboard(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"money":   func(m core.Money) string { return m.Format(r.currency) },
		"decimal": func(d decimal.Decimal) string { return core.FormatDecimal(d, r.currency) },
		"percent": func(d decimal.Decimal) string { return d.Mul(hundred).StringFixed(1) + "%" },
		"label":   analytics.ChartLabel,
		"inc":     func(i int) int { return i + 1 },
	}
}
