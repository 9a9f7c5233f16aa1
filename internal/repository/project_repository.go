package repository

import (
	"github.com/yukikurage/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListOwnedAndShared returns the projects a user owns and the projects
// shared with them.
func (r *GormProjectRepository) ListOwnedAndShared(userID uint64) ([]models.Project, []models.Project, error) {
	var owned []models.Project
	if err := r.db.Where("owner_id = ?", userID).Find(&owned).Error; err != nil {
		return nil, nil, err
	}

	var shared []models.Project
	if err := r.db.
		Joins("JOIN project_shares ON project_shares.project_id = projects.id").
		Where("project_shares.user_id = ?", userID).
		Find(&shared).Error; err != nil {
		return nil, nil, err
	}

	return owned, shared, nil
}

// AddShare adds a user to a project's share set
func (r *GormProjectRepository) AddShare(share *models.ProjectShare) error {
	return r.db.Create(share).Error
}

// FindShare finds a specific share entry
func (r *GormProjectRepository) FindShare(projectID, userID uint64) (*models.ProjectShare, error) {
	var share models.ProjectShare
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&share).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

// ListShares lists all share entries of a project with users preloaded
func (r *GormProjectRepository) ListShares(projectID uint64) ([]models.ProjectShare, error) {
	var shares []models.ProjectShare
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

// ListParticipants returns the owner followed by all shared users
func (r *GormProjectRepository) ListParticipants(project *models.Project) ([]models.User, error) {
	var owner models.User
	if err := r.db.First(&owner, project.OwnerID).Error; err != nil {
		return nil, err
	}

	var sharedUsers []models.User
	if err := r.db.
		Joins("JOIN project_shares ON project_shares.user_id = users.id").
		Where("project_shares.project_id = ?", project.ID).
		Find(&sharedUsers).Error; err != nil {
		return nil, err
	}

	return append([]models.User{owner}, sharedUsers...), nil
}
