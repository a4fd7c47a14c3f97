package model

import (
	"time"

	"github.com/google/uuid"

	borrowmodel "library-backend/internal/domains/borrow/model"
)

// Role of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a library member or admin. Registration creates an unverified
// row; the account becomes usable once the emailed OTP is confirmed.
// Several unverified rows may exist for one email (repeated registration
// attempts); at most one verified row per email.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Verified     bool      `json:"verified" db:"verified"`

	// Avatar in object storage (admins only today)
	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatarUrl,omitempty" db:"avatar_url"`

	// Email verification
	VerificationCode          *string    `json:"-" db:"verification_code"`
	VerificationCodeExpiresAt *time.Time `json:"-" db:"verification_code_expires_at"`

	// Password reset
	ResetTokenHash      *string    `json:"-" db:"reset_token_hash"`
	ResetTokenExpiresAt *time.Time `json:"-" db:"reset_token_expires_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserDTO is the public representation, safe to expose.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Verified  bool      `json:"verified"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminUserView is what the admin user screen gets: the profile plus the
// member's borrow list.
type AdminUserView struct {
	UserDTO
	BorrowedBooks []borrowmodel.UserBorrow `json:"borrowedBooks"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}
