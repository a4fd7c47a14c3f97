package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
)

// Repository is the data-access contract for accounts.
type Repository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindVerifiedByEmail returns the verified account for the email.
	// Returns ErrUserNotFound when none exists.
	FindVerifiedByEmail(ctx context.Context, email string) (*model.User, error)

	// FindLatestUnverifiedByEmail returns the newest pending registration
	// for the email (the one holding the OTP that was just sent).
	FindLatestUnverifiedByEmail(ctx context.Context, email string) (*model.User, error)

	// CountUnverifiedByEmail counts pending registrations, used to cap
	// repeated attempts.
	CountUnverifiedByEmail(ctx context.Context, email string) (int, error)

	// ExistsVerifiedByEmail reports whether the email already has a
	// verified account.
	ExistsVerifiedByEmail(ctx context.Context, email string) (bool, error)

	// MarkVerified flips the account to verified and clears the OTP.
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// DeleteUnverifiedByEmail removes stale pending registrations for the
	// email, keeping the row identified by keepID.
	DeleteUnverifiedByEmail(ctx context.Context, email string, keepID uuid.UUID) error

	// SetResetToken stores the hashed reset token and its expiry.
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error

	// FindByResetTokenHash returns the user holding an unexpired reset
	// token with the given hash.
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error)

	// UpdatePassword replaces the hash and clears any reset token.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// ListVerified returns all verified accounts, for the admin screen.
	ListVerified(ctx context.Context) ([]model.User, error)
}
