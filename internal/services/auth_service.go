package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-tracker/internal/config"
	"github.com/yukikurage/project-tracker/internal/mail"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
	"github.com/yukikurage/project-tracker/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists           = errors.New("user with this username or email already exists")
	ErrMissingCredentials   = errors.New("username, email and password are required")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailNotFound        = errors.New("email not found")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrEmailSendFailed      = errors.New("failed to send reset email")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, authentication and password resets.
type AuthService struct {
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository
	mailer    mail.Sender
	cfg       *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, resetRepo repository.ResetTokenRepository, mailer mail.Sender, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		cfg:       cfg,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user unless the username or email is taken.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	if _, err := s.userRepo.FindByUsernameOrEmail(username, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// RequestPasswordReset issues a reset token for the given email, stores it,
// and mails the reset link. Token storage and email dispatch behave as one
// unit: if the send fails the token row is removed and an error returned.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEmailNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	ttl := time.Duration(s.cfg.ResetTokenTTLSecs) * time.Second
	tokenString, err := token.IssueResetToken(user.ID, []byte(s.cfg.ResetTokenSecret), ttl)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset token: %w", err)
	}

	row := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.resetRepo.Create(row); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset_password/%s", s.cfg.AppBaseURL, tokenString)
	body := fmt.Sprintf("To reset your password, click on the following link: %s", link)
	if err := s.mailer.Send(ctx, user.Email, "Password Reset Request", body); err != nil {
		// The user was never told to check their email, so the token must
		// not stay live.
		if delErr := s.resetRepo.DeleteByToken(tokenString); delErr != nil {
			return "", fmt.Errorf("failed to roll back reset token: %v (send error: %w)", delErr, err)
		}
		return "", ErrEmailSendFailed
	}

	return tokenString, nil
}

// ConfirmPasswordReset verifies a reset token, sets the new password, and
// consumes the token. The signed expiry and the stored row expiry are both
// checked.
func (s *AuthService) ConfirmPasswordReset(tokenString, newPassword string) error {
	if newPassword == "" {
		return ErrMissingCredentials
	}

	userID, err := token.VerifyResetToken(tokenString, []byte(s.cfg.ResetTokenSecret))
	if err != nil {
		return ErrInvalidResetToken
	}

	row, err := s.resetRepo.FindByToken(tokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find reset token: %w", err)
	}

	if row.UserID != userID || time.Now().After(row.ExpiresAt) {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.userRepo.UpdatePasswordAndConsumeToken(userID, string(hashedPassword), row.ID); err != nil {
		return fmt.Errorf("failed to complete password reset: %w", err)
	}

	return nil
}
