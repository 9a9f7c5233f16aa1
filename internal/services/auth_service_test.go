package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
	"github.com/yukikurage/project-tracker/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T, mailer *stubSender) (*AuthService, *gorm.DB) {
	t.Helper()

	db := openServiceDB(t)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewResetTokenRepository(db),
		mailer,
		testServiceConfig(),
	)
	return svc, db
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := setupAuthService(t, &stubSender{})

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw1",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "alice", user.Username)

	// The stored hash must verify against the original password and must
	// not be the password itself.
	require.NotEqual(t, "pw1", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")))
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	svc, _ := setupAuthService(t, &stubSender{})

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "pw2"})
	require.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(RegisterInput{Username: "other", Email: "alice@example.com", Password: "pw2"})
	require.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc, _ := setupAuthService(t, &stubSender{})

	for _, input := range []RegisterInput{
		{Username: "", Email: "a@example.com", Password: "pw"},
		{Username: "a", Email: "", Password: "pw"},
		{Username: "a", Email: "a@example.com", Password: ""},
		{Username: "   ", Email: "a@example.com", Password: "pw"},
	} {
		_, err := svc.Register(input)
		require.ErrorIs(t, err, ErrMissingCredentials, "input %+v", input)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthService(t, &stubSender{})

	registered, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)

	user, err := svc.Login(LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Username: "nobody", Password: "pw1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	mailer := &stubSender{}
	svc, db := setupAuthService(t, mailer)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)

	tokenString, err := svc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	// The signed token resolves back to the requesting user.
	userID, err := token.VerifyResetToken(tokenString, []byte(testServiceConfig().ResetTokenSecret))
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	// A matching row was stored with the configured expiry.
	var row models.PasswordResetToken
	require.NoError(t, db.Where("token = ?", tokenString).First(&row).Error)
	require.Equal(t, user.ID, row.UserID)
	require.WithinDuration(t, time.Now().Add(1800*time.Second), row.ExpiresAt, time.Minute)

	// The email carries the reset link with the token.
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "alice@example.com", mailer.sent[0].to)
	require.Equal(t, "Password Reset Request", mailer.sent[0].subject)
	require.Contains(t, mailer.sent[0].body, "/reset_password/"+tokenString)
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	mailer := &stubSender{}
	svc, _ := setupAuthService(t, mailer)

	_, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrEmailNotFound)
	require.Empty(t, mailer.sent)
}

func TestAuthService_RequestPasswordReset_SendFailure(t *testing.T) {
	mailer := &stubSender{err: errors.New("ses unavailable")}
	svc, db := setupAuthService(t, mailer)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.ErrorIs(t, err, ErrEmailSendFailed)

	// The token row must not survive a failed send.
	var count int64
	require.NoError(t, db.Model(&models.PasswordResetToken{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	svc, db := setupAuthService(t, &stubSender{})

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)

	tokenString, err := svc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPasswordReset(tokenString, "newpassword"))

	_, err = svc.Login(LoginInput{Username: "alice", Password: "pw1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(LoginInput{Username: "alice", Password: "newpassword"})
	require.NoError(t, err)

	// The token was consumed together with the password change.
	var count int64
	require.NoError(t, db.Model(&models.PasswordResetToken{}).Count(&count).Error)
	require.Zero(t, count)

	// A consumed token cannot be replayed.
	err = svc.ConfirmPasswordReset(tokenString, "anotherpassword")
	require.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ConfirmPasswordReset_InvalidToken(t *testing.T) {
	svc, _ := setupAuthService(t, &stubSender{})

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)

	tokenString, err := svc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	tampered := strings.TrimSuffix(tokenString, string(tokenString[len(tokenString)-1])) + "A"
	err = svc.ConfirmPasswordReset(tampered, "newpassword")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	err = svc.ConfirmPasswordReset("not-a-token", "newpassword")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	// The untouched token still works.
	require.NoError(t, svc.ConfirmPasswordReset(tokenString, "newpassword"))
}

func TestAuthService_ConfirmPasswordReset_ExpiredRow(t *testing.T) {
	svc, db := setupAuthService(t, &stubSender{})

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)

	tokenString, err := svc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	// The signature is still valid; the stored expiry alone must reject it.
	err = db.Model(&models.PasswordResetToken{}).
		Where("token = ?", tokenString).
		Update("expires_at", time.Now().Add(-time.Minute)).Error
	require.NoError(t, err)

	err = svc.ConfirmPasswordReset(tokenString, "newpassword")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err, "password must be unchanged after a rejected reset")
}

func TestAuthService_ConfirmPasswordReset_EmptyPassword(t *testing.T) {
	svc, _ := setupAuthService(t, &stubSender{})

	err := svc.ConfirmPasswordReset("whatever", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
}
