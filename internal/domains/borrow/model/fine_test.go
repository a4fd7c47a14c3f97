package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateFine(t *testing.T) {
	rate := decimal.RequireFromString("10.00")
	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		returnedAt time.Time
		want       string
	}{
		{
			name:       "returned before due date",
			returnedAt: due.Add(-48 * time.Hour),
			want:       "0",
		},
		{
			name:       "returned exactly on due date",
			returnedAt: due,
			want:       "0",
		},
		{
			name:       "one minute late charges a full day",
			returnedAt: due.Add(time.Minute),
			want:       "10",
		},
		{
			name:       "exactly one day late",
			returnedAt: due.Add(24 * time.Hour),
			want:       "10",
		},
		{
			name:       "one day and one hour late charges two days",
			returnedAt: due.Add(25 * time.Hour),
			want:       "20",
		},
		{
			name:       "two days late",
			returnedAt: due.Add(48 * time.Hour),
			want:       "20",
		},
		{
			name:       "ten days late",
			returnedAt: due.Add(10 * 24 * time.Hour),
			want:       "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fine := CalculateFine(due, tt.returnedAt, rate)
			assert.True(t, fine.Equal(decimal.RequireFromString(tt.want)),
				"want %s, got %s", tt.want, fine.String())
		})
	}
}

func TestCalculateFineZeroRate(t *testing.T) {
	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	fine := CalculateFine(due, due.Add(72*time.Hour), decimal.Zero)
	assert.True(t, fine.IsZero())
}

func TestReturnSummaryTotal(t *testing.T) {
	s := ReturnSummary{
		Price: decimal.RequireFromString("25.50"),
		Fine:  decimal.RequireFromString("20.00"),
	}
	assert.True(t, s.Total().Equal(decimal.RequireFromString("45.50")))
}

func TestUserBorrowOverdue(t *testing.T) {
	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	entry := UserBorrow{DueDate: due}

	assert.False(t, entry.Overdue(due))
	assert.True(t, entry.Overdue(due.Add(time.Hour)))

	entry.Returned = true
	assert.False(t, entry.Overdue(due.Add(time.Hour)))
}
