package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"library-backend/internal/domains/borrow/model"
	"library-backend/pkg/database"
)

const entryColumns = `
	id, user_id, book_id, book_title, borrowed_at, due_date, returned, returned_at
`

const recordColumns = `
	id, user_id, user_name, user_email, book_id,
	borrowed_at, due_date, return_date, price, fine, notified
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL borrow repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanEntry(row pgx.Row) (*model.UserBorrow, error) {
	var e model.UserBorrow
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.BookID,
		&e.BookTitle,
		&e.BorrowedAt,
		&e.DueDate,
		&e.Returned,
		&e.ReturnedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan borrow entry: %w", err)
	}
	return &e, nil
}

func scanRecord(row pgx.Row) (*model.BorrowRecord, error) {
	var r model.BorrowRecord
	err := row.Scan(
		&r.ID,
		&r.User.ID,
		&r.User.Name,
		&r.User.Email,
		&r.BookID,
		&r.BorrowedAt,
		&r.DueDate,
		&r.ReturnDate,
		&r.Price,
		&r.Fine,
		&r.Notified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan borrow record: %w", err)
	}
	return &r, nil
}

func (r *postgresRepository) FindActiveEntry(ctx context.Context, userID, bookID uuid.UUID) (*model.UserBorrow, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + entryColumns + `
		FROM user_borrows
		WHERE user_id = $1 AND book_id = $2 AND returned = FALSE
	`
	return scanEntry(q.QueryRow(ctx, query, userID, bookID))
}

func (r *postgresRepository) AddEntry(ctx context.Context, entry *model.UserBorrow) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		INSERT INTO user_borrows (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.BookID,
		entry.BookTitle,
		entry.BorrowedAt,
		entry.DueDate,
		entry.Returned,
		entry.ReturnedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert borrow entry: %w", err)
	}
	return nil
}

func (r *postgresRepository) MarkEntryReturned(ctx context.Context, entryID uuid.UUID, returnedAt time.Time) error {
	q := database.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE user_borrows
		SET returned = TRUE, returned_at = $2
		WHERE id = $1 AND returned = FALSE
	`, entryID, returnedAt)
	if err != nil {
		return fmt.Errorf("failed to mark entry returned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEntryNotFound
	}
	return nil
}

func (r *postgresRepository) ListEntriesByUser(ctx context.Context, userID uuid.UUID) ([]model.UserBorrow, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + entryColumns + `
		FROM user_borrows
		WHERE user_id = $1
		ORDER BY borrowed_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrow entries: %w", err)
	}
	defer rows.Close()

	var entries []model.UserBorrow
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate borrow entries: %w", err)
	}

	return entries, nil
}

func (r *postgresRepository) OpenRecord(ctx context.Context, record *model.BorrowRecord) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		INSERT INTO borrow_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.Exec(ctx, query,
		record.ID,
		record.User.ID,
		record.User.Name,
		record.User.Email,
		record.BookID,
		record.BorrowedAt,
		record.DueDate,
		record.ReturnDate,
		record.Price,
		record.Fine,
		record.Notified,
	)
	if err != nil {
		return fmt.Errorf("failed to insert borrow record: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindOldestOpenRecord(ctx context.Context, userID, bookID uuid.UUID) (*model.BorrowRecord, error) {
	q := database.QuerierFrom(ctx, r.pool)

	// Oldest first: when duplicate open records ever exist, the earliest
	// loan is the one being settled.
	query := `
		SELECT ` + recordColumns + `
		FROM borrow_records
		WHERE user_id = $1 AND book_id = $2 AND return_date IS NULL
		ORDER BY borrowed_at ASC
		LIMIT 1
	`
	return scanRecord(q.QueryRow(ctx, query, userID, bookID))
}

func (r *postgresRepository) CloseRecord(ctx context.Context, recordID uuid.UUID, returnDate time.Time, fine decimal.Decimal) error {
	q := database.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE borrow_records
		SET return_date = $2, fine = $3
		WHERE id = $1 AND return_date IS NULL
	`, recordID, returnDate, fine)
	if err != nil {
		return fmt.Errorf("failed to close borrow record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRecordNotFound
	}
	return nil
}

func (r *postgresRepository) ListAllRecords(ctx context.Context) ([]model.BorrowRecord, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + recordColumns + `
		FROM borrow_records
		ORDER BY borrowed_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrow records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *postgresRepository) FindOverdueUnnotified(ctx context.Context, dueBefore time.Time) ([]model.BorrowRecord, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + recordColumns + `
		FROM borrow_records
		WHERE due_date < $1 AND return_date IS NULL AND notified = FALSE
		ORDER BY due_date ASC
	`

	rows, err := q.Query(ctx, query, dueBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *postgresRepository) MarkNotified(ctx context.Context, recordID uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE borrow_records SET notified = TRUE WHERE id = $1`,
		recordID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark record notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRecordNotFound
	}
	return nil
}

func collectRecords(rows pgx.Rows) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate borrow records: %w", err)
	}

	return records, nil
}
