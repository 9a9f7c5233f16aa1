package handlers

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker/internal/config"
	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testUserHeader carries the acting user's ID in suite tests, standing in
// for the session established by the login flow.
const testUserHeader = "X-Test-User-ID"

func openHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectShare{},
		&models.Task{},
		&models.PasswordResetToken{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func testHandlerConfig() *config.Config {
	return &config.Config{
		SessionSecret:     "test-session-secret",
		ResetTokenSecret:  "test-reset-secret",
		ResetTokenTTLSecs: 1800,
		AppBaseURL:        "http://localhost:8080",
	}
}

// testIdentity resolves the acting user from the test header.
func testIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.GetHeader(testUserHeader); v != "" {
			if id, err := strconv.ParseUint(v, 10, 64); err == nil {
				c.Set(constants.ContextKeyUserID, id)
			}
		}
		c.Next()
	}
}

// mergeCookies folds freshly set cookies into an existing jar, replacing
// cookies by name so the session cookie tracks its latest value.
func mergeCookies(existing, updates []*http.Cookie) []*http.Cookie {
	merged := append([]*http.Cookie{}, existing...)
	for _, u := range updates {
		replaced := false
		for i, e := range merged {
			if e.Name == u.Name {
				merged[i] = u
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, u)
		}
	}
	return merged
}

type capturedMail struct {
	to      string
	subject string
	body    string
}

// stubMailer records outbound mail, or fails every send when err is set.
type stubMailer struct {
	err  error
	sent []capturedMail
}

func (s *stubMailer) Send(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, capturedMail{to: to, subject: subject, body: body})
	return nil
}
