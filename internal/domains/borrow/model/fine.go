package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculateFine charges ratePerDay for every started day past the due
// date. Returning one minute late costs a full day; on-time returns cost
// nothing.
func CalculateFine(dueDate, returnedAt time.Time, ratePerDay decimal.Decimal) decimal.Decimal {
	if !returnedAt.After(dueDate) {
		return decimal.Zero
	}

	overdue := returnedAt.Sub(dueDate)
	days := int64(overdue / (24 * time.Hour))
	if overdue%(24*time.Hour) > 0 {
		days++
	}

	return ratePerDay.Mul(decimal.NewFromInt(days))
}
