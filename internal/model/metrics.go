package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpend holds aggregated spend for one category.
type CategorySpend struct {
	Category     string
	Amount       decimal.Decimal
	Transactions int
}

// DailySpend holds total spend for a single calendar day.
type DailySpend struct {
	Date   time.Time
	Amount decimal.Decimal
}

// MonthlySpend holds per-category totals for one calendar month.
type MonthlySpend struct {
	Month      time.Time // first day of the month
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
}
