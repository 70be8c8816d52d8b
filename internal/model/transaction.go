// Package model defines the core data types shared across pbudget.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one row of the spending CSV.
type Transaction struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal // positive = spend, negative = refund
	CardID   string
}

// MonthKey returns the transaction's calendar month as "2006-01".
func (t Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// DaysInMonth returns the number of days in t's calendar month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
