package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"library-backend/internal/domains/borrow/model"
)

// Repository persists both sides of a lending: the member's borrow list
// (user_borrows) and the canonical ledger (borrow_records). Every method
// honours a transaction carried in ctx.
type Repository interface {
	// --- member borrow list ---

	// FindActiveEntry returns the unreturned entry for (user, book).
	// Returns ErrEntryNotFound when the member does not hold the book.
	FindActiveEntry(ctx context.Context, userID, bookID uuid.UUID) (*model.UserBorrow, error)

	AddEntry(ctx context.Context, entry *model.UserBorrow) error

	// MarkEntryReturned flips the entry and stamps the return time.
	MarkEntryReturned(ctx context.Context, entryID uuid.UUID, returnedAt time.Time) error

	// ListEntriesByUser returns the member's full borrow history, newest
	// first.
	ListEntriesByUser(ctx context.Context, userID uuid.UUID) ([]model.UserBorrow, error)

	// --- ledger ---

	OpenRecord(ctx context.Context, record *model.BorrowRecord) error

	// FindOldestOpenRecord returns the oldest open ledger record for
	// (user, book). Returns ErrRecordNotFound when none is open.
	FindOldestOpenRecord(ctx context.Context, userID, bookID uuid.UUID) (*model.BorrowRecord, error)

	// CloseRecord stamps the return date and the fine.
	CloseRecord(ctx context.Context, recordID uuid.UUID, returnDate time.Time, fine decimal.Decimal) error

	// ListAllRecords returns the whole ledger, newest first.
	ListAllRecords(ctx context.Context) ([]model.BorrowRecord, error)

	// FindOverdueUnnotified returns open records with due_date before the
	// threshold whose borrower has not been reminded yet.
	FindOverdueUnnotified(ctx context.Context, dueBefore time.Time) ([]model.BorrowRecord, error)

	MarkNotified(ctx context.Context, recordID uuid.UUID) error
}
