package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// Repository is the data-access contract for the catalog. Every method
// honours a transaction carried in ctx (pkg/database.Transactor), which is
// how the borrow flow makes stock changes atomic with its own writes.
type Repository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Reserve takes one copy off the shelf: quantity -1, availability
	// recomputed. It is a conditional update (quantity >= 1), so two
	// concurrent borrows of the last copy cannot both succeed.
	// Returns ErrBookOutOfStock when no copy is left.
	Reserve(ctx context.Context, id uuid.UUID) error

	// Release puts one copy back: quantity +1, availability recomputed.
	Release(ctx context.Context, id uuid.UUID) error
}
