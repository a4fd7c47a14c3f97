package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// Service is the catalog business-logic contract.
type Service interface {
	AddBook(ctx context.Context, req model.AddBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	GetAllBooks(ctx context.Context) ([]model.Book, error)

	// InvalidateCatalogCache drops the cached book list. The borrow flow
	// calls it after stock mutations.
	InvalidateCatalogCache(ctx context.Context)
}
