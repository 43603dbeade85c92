package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category        `json:"category"`
	Amount   Money           `json:"amount"`
	Share    decimal.Decimal `json:"share"` // fraction of the whole, 0..1
}

// DayKey identifies a day of the year regardless of the year.
type DayKey struct {
	Month int
	Day   int
}

// DayAmount is one point of the daily spending trend.
type DayAmount struct {
	Key    DayKey `json:"-"`
	Label  string `json:"date"` // "M/D"
	Amount Money  `json:"amount"`
}
