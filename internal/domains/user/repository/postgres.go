package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/user/model"
	"library-backend/pkg/database"
)

const userColumns = `
	id, name, email, password_hash, role, verified,
	avatar_key, avatar_url,
	verification_code, verification_code_expires_at,
	reset_token_hash, reset_token_expires_at,
	created_at, updated_at
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL account repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Verified,
		&u.AvatarKey,
		&u.AvatarURL,
		&u.VerificationCode,
		&u.VerificationCodeExpiresAt,
		&u.ResetTokenHash,
		&u.ResetTokenExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, user *model.User) error {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := q.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Verified,
		user.AvatarKey,
		user.AvatarURL,
		user.VerificationCode,
		user.VerificationCodeExpiresAt,
		user.ResetTokenHash,
		user.ResetTokenExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindVerifiedByEmail(ctx context.Context, email string) (*model.User, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1) AND verified = TRUE
	`
	return scanUser(q.QueryRow(ctx, query, email))
}

func (r *postgresRepository) FindLatestUnverifiedByEmail(ctx context.Context, email string) (*model.User, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1) AND verified = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanUser(q.QueryRow(ctx, query, email))
}

func (r *postgresRepository) CountUnverifiedByEmail(ctx context.Context, email string) (int, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE lower(email) = lower($1) AND verified = FALSE`,
		email,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unverified users: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) ExistsVerifiedByEmail(ctx context.Context, email string) (bool, error) {
	q := database.QuerierFrom(ctx, r.pool)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) AND verified = TRUE)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET verified = TRUE,
		    verification_code = NULL,
		    verification_code_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteUnverifiedByEmail(ctx context.Context, email string, keepID uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.pool)

	_, err := q.Exec(ctx,
		`DELETE FROM users WHERE lower(email) = lower($1) AND verified = FALSE AND id <> $2`,
		email, keepID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete stale registrations: %w", err)
	}
	return nil
}

func (r *postgresRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	q := database.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET reset_token_hash = $2,
		    reset_token_expires_at = $3,
		    updated_at = NOW()
		WHERE id = $1
	`, id, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token_hash = $1 AND reset_token_expires_at > NOW()
	`
	return scanUser(q.QueryRow(ctx, query, tokenHash))
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	q := database.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET password_hash = $2,
		    reset_token_hash = NULL,
		    reset_token_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) ListVerified(ctx context.Context) ([]model.User, error) {
	q := database.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE verified = TRUE
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
