package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/borrow/model"
)

// Service orchestrates lending: it is the only writer that touches the
// catalog stock, the member borrow list and the ledger together.
type Service interface {
	// BorrowBook lends one copy to the verified member identified by
	// email. Stock decrement, member entry and ledger record commit
	// atomically.
	BorrowBook(ctx context.Context, bookID uuid.UUID, email string) error

	// ReturnBook takes the copy back, computes the fine and closes the
	// ledger record. Returns the charges for the response message.
	ReturnBook(ctx context.Context, bookID uuid.UUID, email string) (*model.ReturnSummary, error)

	// MyBorrowedBooks returns the member's own borrow list.
	MyBorrowedBooks(ctx context.Context, userID uuid.UUID) ([]model.UserBorrow, error)

	// AllBorrowRecords returns the full ledger, for the admin screen.
	AllBorrowRecords(ctx context.Context) ([]model.BorrowRecord, error)

	// BorrowedBooksOf returns another member's list, for the admin user
	// screen.
	BorrowedBooksOf(ctx context.Context, userID uuid.UUID) ([]model.UserBorrow, error)

	// NotifyOverdueBorrowers emails everyone holding a book more than a
	// day past due and flags the records so nobody is mailed twice.
	// Returns how many reminders went out.
	NotifyOverdueBorrowers(ctx context.Context) (int, error)
}
