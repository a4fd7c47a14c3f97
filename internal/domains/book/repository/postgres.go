package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
	"library-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL catalog repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		INSERT INTO books (
			id, title, author, description, category, price, quantity,
			availability, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.Category,
		book.Price,
		book.Quantity,
		book.Availability,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT id, title, author, description, category, price, quantity,
		       availability, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	var book model.Book
	err := q.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Category,
		&book.Price,
		&book.Quantity,
		&book.Availability,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return &book, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Book, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT id, title, author, description, category, price, quantity,
		       availability, created_at, updated_at
		FROM books
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var book model.Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Description,
			&book.Category,
			&book.Price,
			&book.Quantity,
			&book.Availability,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

// Reserve decrements quantity only when a copy is left. The WHERE clause is
// the concurrency guard: under concurrent borrows of a quantity=1 book,
// exactly one UPDATE matches.
func (r *postgresRepository) Reserve(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		UPDATE books
		SET quantity = quantity - 1,
		    availability = quantity - 1 > 0,
		    updated_at = NOW()
		WHERE id = $1 AND quantity >= 1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to reserve book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Row exists but no copy left, or the book vanished. Callers look
		// the book up first, so this is out-of-stock in practice.
		return model.ErrBookOutOfStock
	}

	return nil
}

func (r *postgresRepository) Release(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		UPDATE books
		SET quantity = quantity + 1,
		    availability = TRUE,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to release book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}
