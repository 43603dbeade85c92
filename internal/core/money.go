// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Parsing and any arithmetic that can
// leave the cent grid (averages, shares) go through shopspring/decimal;
// rendering goes through go-money so the currency symbol and separators
// come from one place.
package core

import (
	"encoding/json"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = money.EUR

// MaxAmountCents is the largest single amount, 999,999,999.99. With at
// most MaxExpenses held, every sum of amounts stays below 1e17 cents and
// so inside int64.
const MaxAmountCents = 99_999_999_999

// MaxExpenses bounds the size of the expense collection.
const MaxExpenses = 1_000_000

var maxAmount = decimal.New(MaxAmountCents, -2)

// ParseAmount converts a decimal string to cents with half-up rounding.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Zero is a
// valid amount; signs, exponents and anything non-numeric are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234, nil
//	ParseAmount("12,345") -> 1235, nil
//	ParseAmount("0")      -> 0, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	d = d.Round(2)
	if d.IsNegative() || d.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return NewMoney(d).Cents, nil
}

// NewMoney converts a major-unit decimal to Money, rounding to the cent.
func NewMoney(major decimal.Decimal) Money {
	return Money{Cents: major.Round(2).Shift(2).IntPart()}
}

func (m Money) Add(n Money) Money {
	return Money{Cents: m.Cents + n.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Decimal returns the value in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Format renders m in the given ISO currency, e.g. "€127.50".
func (m Money) Format(currency string) string {
	return FormatDecimal(m.Decimal(), currency)
}

// FormatDecimal renders a major-unit amount in the given ISO currency.
// This is the only place amounts get rounded for display.
func FormatDecimal(major decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	minor := major.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// KnownCurrency reports whether go-money can format the given code.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// MarshalJSON writes the amount as a plain number in major units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number or string in major units.
func (m *Money) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = s
	}
	cents, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}
