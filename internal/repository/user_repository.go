package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrUpdatePassword is returned when updating the password hash fails
	// inside the reset transaction.
	ErrUpdatePassword = errors.New("user repository: update password failed")
	// ErrConsumeToken is returned when deleting the reset token row fails
	// inside the reset transaction.
	ErrConsumeToken = errors.New("user repository: consume reset token failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernameOrEmail finds a user whose username or email matches
func (r *GormUserRepository) FindByUsernameOrEmail(username, email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ? OR email = ?", username, email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePasswordAndConsumeToken sets the new password hash and removes the
// reset token row atomically.
func (r *GormUserRepository) UpdatePasswordAndConsumeToken(userID uint64, passwordHash string, tokenID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password_hash", passwordHash).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrUpdatePassword, err)
		}

		if err := tx.Delete(&models.PasswordResetToken{}, tokenID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrConsumeToken, err)
		}

		return nil
	})
}
