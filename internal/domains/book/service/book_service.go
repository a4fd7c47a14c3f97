package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"
)

const (
	catalogCacheKey = "books:all"
	catalogCacheTTL = 5 * time.Minute
)

type bookService struct {
	repo  repository.Repository
	cache cache.Cache
}

// NewBookService creates the catalog service.
func NewBookService(repo repository.Repository, c cache.Cache) Service {
	return &bookService{
		repo:  repo,
		cache: c,
	}
}

func (s *bookService) AddBook(ctx context.Context, req model.AddBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := req.ToBook()
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.InvalidateCatalogCache(ctx)
	return book, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.InvalidateCatalogCache(ctx)
	return nil
}

func (s *bookService) GetAllBooks(ctx context.Context) ([]model.Book, error) {
	var cached []model.Book
	found, err := s.cache.Get(ctx, catalogCacheKey, &cached)
	if err != nil {
		// Cache trouble must not take the catalog down.
		logger.Error("catalog cache read failed", err)
	}
	if found {
		return cached, nil
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	if err := s.cache.Set(ctx, catalogCacheKey, books, catalogCacheTTL); err != nil {
		logger.Error("catalog cache write failed", err)
	}

	return books, nil
}

func (s *bookService) InvalidateCatalogCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		logger.Error("catalog cache invalidation failed", err)
	}
}
