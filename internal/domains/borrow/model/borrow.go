package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserBorrow is one line in a member's borrow list: the denormalized view
// a member sees on their own page. At most one unreturned row exists per
// (user, book); returning and borrowing again appends a new row, history
// stays append-only.
type UserBorrow struct {
	ID     uuid.UUID `json:"-" db:"id"`
	UserID uuid.UUID `json:"-" db:"user_id"`

	BookID     uuid.UUID  `json:"bookId" db:"book_id"`
	BookTitle  string     `json:"bookTitle" db:"book_title"`
	BorrowedAt time.Time  `json:"borrowedDate" db:"borrowed_at"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	Returned   bool       `json:"returned" db:"returned"`
	ReturnedAt *time.Time `json:"returnedDate,omitempty" db:"returned_at"`
}

// Overdue reports whether the loan is past due and still out.
func (b *UserBorrow) Overdue(now time.Time) bool {
	return !b.Returned && now.After(b.DueDate)
}

// BorrowerInfo is the user snapshot frozen into a ledger record at borrow
// time. Later changes to the account do not rewrite history.
type BorrowerInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// BorrowRecord is the canonical lending ledger entry. One row per borrow,
// closed by setting ReturnDate, never deleted.
type BorrowRecord struct {
	ID         uuid.UUID       `json:"id"`
	User       BorrowerInfo    `json:"user"`
	BookID     uuid.UUID       `json:"book"`
	BorrowedAt time.Time       `json:"borrowedDate"`
	DueDate    time.Time       `json:"dueDate"`
	ReturnDate *time.Time      `json:"returnDate"`
	Price      decimal.Decimal `json:"price"`
	Fine       decimal.Decimal `json:"fine"`
	Notified   bool            `json:"notified"`
}

// Open reports whether the book is still out on this record.
func (r *BorrowRecord) Open() bool {
	return r.ReturnDate == nil
}

// ReturnSummary carries the charges for a completed return.
type ReturnSummary struct {
	Price decimal.Decimal
	Fine  decimal.Decimal
}

// Total is the full charge: book price plus any late fine.
func (s ReturnSummary) Total() decimal.Decimal {
	return s.Price.Add(s.Fine)
}
