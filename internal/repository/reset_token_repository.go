package repository

import (
	"github.com/yukikurage/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormResetTokenRepository is a GORM implementation of ResetTokenRepository
type GormResetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository creates a new ResetTokenRepository
func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &GormResetTokenRepository{db: db}
}

// Create creates a new reset token row
func (r *GormResetTokenRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

// FindByToken finds a reset token row by its token string
func (r *GormResetTokenRepository) FindByToken(token string) (*models.PasswordResetToken, error) {
	var row models.PasswordResetToken
	if err := r.db.Where("token = ?", token).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteByToken deletes a reset token row by its token string
func (r *GormResetTokenRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.PasswordResetToken{}).Error
}
