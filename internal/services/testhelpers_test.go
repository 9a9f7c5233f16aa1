package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker/internal/config"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openServiceDB(t *testing.T) *gorm.DB {
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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func testServiceConfig() *config.Config {
	return &config.Config{
		ResetTokenSecret:  "test-reset-secret",
		ResetTokenTTLSecs: 1800,
		AppBaseURL:        "http://localhost:8080",
	}
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// stubSender records outbound mail, or fails every send when err is set.
type stubSender struct {
	err  error
	sent []sentMail
}

func (s *stubSender) Send(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestProjectService(db *gorm.DB) *ProjectService {
	return NewProjectService(repository.NewProjectRepository(db), repository.NewUserRepository(db))
}

func newTestTaskService(db *gorm.DB) *TaskService {
	return NewTaskService(repository.NewTaskRepository(db), repository.NewUserRepository(db), newTestProjectService(db))
}
