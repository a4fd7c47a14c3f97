package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	borrowmodel "library-backend/internal/domains/borrow/model"
	"library-backend/internal/domains/user/model"
	"library-backend/internal/domains/user/repository"
	"library-backend/internal/infrastructure/queue"
	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

const (
	bcryptCost = 12

	otpLength = 5
	otpTTL    = 15 * time.Minute

	// Cap on pending registrations per email before verification succeeds.
	maxUnverifiedRegistrations = 5

	resetTokenTTL = 15 * time.Minute

	maxAvatarSize = 2 << 20 // 2MB
)

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// BorrowLister is the slice of the lending domain the admin user screen
// needs: each member's borrow list.
type BorrowLister interface {
	BorrowedBooksOf(ctx context.Context, userID uuid.UUID) ([]borrowmodel.UserBorrow, error)
}

type userService struct {
	repo        repository.Repository
	enqueuer    queue.Enqueuer
	storage     *storage.MinIOStorage
	jwtManager  *jwt.Manager
	borrows     BorrowLister
	frontendURL string
}

// NewUserService wires the account service.
func NewUserService(
	repo repository.Repository,
	enqueuer queue.Enqueuer,
	store *storage.MinIOStorage,
	jwtManager *jwt.Manager,
	borrows BorrowLister,
	frontendURL string,
) Service {
	return &userService{
		repo:        repo,
		enqueuer:    enqueuer,
		storage:     store,
		jwtManager:  jwtManager,
		borrows:     borrows,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.ExistsVerifiedByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrAlreadyRegistered
	}

	pending, err := s.repo.CountUnverifiedByEmail(ctx, email)
	if err != nil {
		return err
	}
	if pending >= maxUnverifiedRegistrations {
		return model.ErrTooManyAttempts
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(otpTTL)
	user := &model.User{
		ID:                        uuid.New(),
		Name:                      strings.TrimSpace(req.Name),
		Email:                     email,
		PasswordHash:              string(hash),
		Role:                      model.RoleUser,
		Verified:                  false,
		VerificationCode:          &otp,
		VerificationCodeExpiresAt: &expiresAt,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	if err := s.enqueuer.EnqueueOTPEmail(ctx, shared.SendOTPEmailPayload{
		Name:  user.Name,
		Email: user.Email,
		OTP:   otp,
	}); err != nil {
		// Registration already persisted; the user can retry and get a
		// fresh code.
		logger.Error("Failed to enqueue OTP email", err)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	logger.Info("Registration started", map[string]interface{}{
		"email": user.Email,
	})
	return nil
}

func (s *userService) VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindLatestUnverifiedByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidOTP
		}
		return nil, err
	}

	if user.VerificationCode == nil || *user.VerificationCode != req.OTP {
		return nil, model.ErrInvalidOTP
	}
	if user.VerificationCodeExpiresAt == nil || time.Now().After(*user.VerificationCodeExpiresAt) {
		return nil, model.ErrOTPExpired
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}

	// Older abandoned attempts for the same email are dead weight now.
	if err := s.repo.DeleteUnverifiedByEmail(ctx, email, user.ID); err != nil {
		logger.Error("Failed to clean up stale registrations", err)
	}

	user.Verified = true
	return s.issueSession(user)
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindVerifiedByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issueSession(user)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := user.ToDTO()
	return &dto, nil
}

func (s *userService) ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindVerifiedByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Same response either way, unknown emails leak nothing.
			logger.Debug("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, tokenHash, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.repo.SetResetToken(ctx, user.ID, tokenHash, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if err := s.enqueuer.EnqueueResetPasswordEmail(ctx, shared.SendResetPasswordEmailPayload{
		Name:     user.Name,
		Email:    user.Email,
		ResetURL: resetURL,
	}); err != nil {
		logger.Error("Failed to enqueue reset password email", err)
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

func (s *userService) ResetPassword(ctx context.Context, token string, req *model.ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return model.ErrPasswordMismatch
	}

	sum := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(sum[:])

	user, err := s.repo.FindByResetTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.ErrInvalidResetToken
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmNewPassword {
		return model.ErrPasswordMismatch
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *userService) ListUsers(ctx context.Context) ([]model.AdminUserView, error) {
	users, err := s.repo.ListVerified(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.AdminUserView, 0, len(users))
	for i := range users {
		entries, err := s.borrows.BorrowedBooksOf(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []borrowmodel.UserBorrow{}
		}
		views = append(views, model.AdminUserView{
			UserDTO:       users[i].ToDTO(),
			BorrowedBooks: entries,
		})
	}
	return views, nil
}

func (s *userService) AddNewAdmin(ctx context.Context, req *model.AddAdminRequest) (*model.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.Avatar) == 0 {
		return nil, model.ErrAvatarRequired
	}
	ext, ok := allowedAvatarTypes[strings.ToLower(req.AvatarContentType)]
	if !ok {
		return nil, model.ErrInvalidAvatarFormat
	}
	if len(req.Avatar) > maxAvatarSize {
		return nil, model.ErrAvatarTooLarge
	}

	exists, err := s.repo.ExistsVerifiedByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New()
	key := path.Join("avatars", id.String()+ext)
	avatarURL, err := s.storage.Upload(ctx, key, req.Avatar, req.AvatarContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	now := time.Now()
	admin := &model.User{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Verified:     true, // admins skip the OTP flow
		AvatarKey:    &key,
		AvatarURL:    &avatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		// Keep the bucket consistent with the table.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.Error("Failed to remove orphaned avatar", delErr)
		}
		return nil, err
	}

	logger.Info("Admin account created", map[string]interface{}{
		"email": admin.Email,
	})

	dto := admin.ToDTO()
	return &dto, nil
}

func (s *userService) issueSession(user *model.User) (*model.LoginResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.LoginResponse{
		Token: token,
		User:  user.ToDTO(),
	}, nil
}

// generateOTP returns a 5-digit numeric code in [10000, 99999] so the
// leading digit is never zero.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+10000), nil
}

// generateResetToken returns the raw token (for the email link) and its
// sha256 hex digest (the only form ever stored).
func generateResetToken() (token, tokenHash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(token))
	return token, hex.EncodeToString(sum[:]), nil
}
