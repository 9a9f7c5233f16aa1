package repository

import (
	"github.com/yukikurage/project-tracker/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsernameOrEmail finds a user matching either field, used for the
	// duplicate check at registration
	FindByUsernameOrEmail(username, email string) (*models.User, error)

	// UpdatePasswordAndConsumeToken sets a new password hash and deletes the
	// reset token row within a single transaction
	UpdatePasswordAndConsumeToken(userID uint64, passwordHash string, tokenID uint64) error
}

// ProjectRepository defines the interface for project and share data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListOwnedAndShared returns the projects a user owns and the projects
	// shared with them, for dashboard assembly
	ListOwnedAndShared(userID uint64) (owned []models.Project, shared []models.Project, err error)

	// AddShare adds a user to a project's share set
	AddShare(share *models.ProjectShare) error

	// FindShare finds a specific share entry
	FindShare(projectID, userID uint64) (*models.ProjectShare, error)

	// ListShares lists all share entries of a project with users preloaded
	ListShares(projectID uint64) ([]models.ProjectShare, error)

	// ListParticipants returns the owner followed by all shared users
	ListParticipants(project *models.Project) ([]models.User, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject lists all tasks of a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// UpdateStatus updates only a task's status
	UpdateStatus(id uint64, status models.TaskStatus) error

	// Delete deletes a task
	Delete(id uint64) error
}

// ResetTokenRepository defines the interface for password reset token rows
type ResetTokenRepository interface {
	// Create creates a new reset token row
	Create(token *models.PasswordResetToken) error

	// FindByToken finds a reset token row by its token string
	FindByToken(token string) (*models.PasswordResetToken, error)

	// DeleteByToken deletes a reset token row by its token string
	DeleteByToken(token string) error
}
