// Package token issues and verifies signed password reset tokens. The
// token carries its own expiry; the matching database row carries a second
// one, and both are checked before a reset is honored.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidResetToken is returned for malformed, tampered, or expired
// tokens. Callers never see the underlying parse error.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

type resetClaims struct {
	jwt.RegisteredClaims
}

// IssueResetToken generates a signed reset token bound to userID, valid
// for ttl.
func IssueResetToken(userID uint64, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := resetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// VerifyResetToken validates the signature and embedded expiry and returns
// the bound user ID.
func VerifyResetToken(tokenString string, secretKey []byte) (uint64, error) {
	claims := &resetClaims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidResetToken
		}
		return secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidResetToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidResetToken
	}

	return userID, nil
}
