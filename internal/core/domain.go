package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Utilities      Category = "Utilities"
	Entertainment  Category = "Entertainment"
	Health         Category = "Health"
	Education      Category = "Education"
	Shopping       Category = "Shopping"
	Other          Category = "Other"
)

// DateLayout is the wire and form format of a Date.
const DateLayout = "2006-01-02"

type (
	Category string

	// Date is a calendar date without time of day, always at UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID            string   `json:"id"`
		Description   string   `json:"description"`
		Amount        Money    `json:"amount"`
		Category      Category `json:"category"`
		Date          Date     `json:"date"`
		BankAccountID string   `json:"bankAccountId"`
	}

	// ExpenseInput is an expense as typed by a user, before validation
	// and id assignment.
	ExpenseInput struct {
		Description   string `json:"description"`
		Amount        string `json:"amount"`
		Category      string `json:"category"`
		BankAccountID string `json:"bankAccountId"`
		Date          string `json:"date"`
	}

	BankAccount struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Last4   string `json:"last4"`
		Balance Money  `json:"balance"`
		Color   string `json:"color"`
	}
)

var (
	// ErrValidation is wrapped by every input validation failure.
	ErrValidation = errors.New("validation failed")

	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidCategory  = fmt.Errorf("%w: invalid category", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrCollectionFull   = fmt.Errorf("%w: expense limit reached", ErrValidation)
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{Food, Transportation, Utilities, Entertainment, Health, Education, Shopping, Other}
}

// ParseCategory matches s against the category set, ignoring case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func (c Category) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// SameMonth reports whether d falls in the calendar month and year of t.
func (d Date) SameMonth(t time.Time) bool {
	return d.Year() == t.Year() && d.Month() == int(t.Month())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	return e.Date.Validate()
}

// Parse validates the input and converts it to an Expense with no ID.
func (in ExpenseInput) Parse() (Expense, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Expense{}, ErrEmptyDescription
	}
	cents, err := ParseAmount(in.Amount)
	if err != nil {
		return Expense{}, err
	}
	cat, err := ParseCategory(in.Category)
	if err != nil {
		return Expense{}, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		Description:   desc,
		Amount:        Money{Cents: cents},
		Category:      cat,
		Date:          date,
		BankAccountID: strings.TrimSpace(in.BankAccountID),
	}, nil
}

// Masked renders the account number the way a card face shows it.
func (a BankAccount) Masked() string {
	if a.Last4 == "" {
		return ""
	}
	return "•••• •••• •••• " + a.Last4
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
