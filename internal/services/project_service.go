package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-tracker/internal/authz"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidProjectName = errors.New("project name cannot be empty")
	ErrProjectNotFound    = errors.New("project not found")
	ErrNoProjectAccess    = errors.New("access denied")
	ErrNotProjectOwner    = errors.New("only the project owner can perform this action")
	ErrShareWithOwner     = errors.New("you cannot share a project with yourself")
	ErrAlreadyShared      = errors.New("project already shared with that user")
	ErrShareUserNotFound  = errors.New("user not found")
)

// ProjectService provides business logic for projects and sharing.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// CreateProject creates a new project owned by the creator.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// Dashboard returns the projects a user owns and the projects shared with
// them.
func (s *ProjectService) Dashboard(userID uint64) (owned []models.Project, shared []models.Project, err error) {
	owned, shared, err = s.projectRepo.ListOwnedAndShared(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return owned, shared, nil
}

// ACL loads a project's authorization snapshot.
func (s *ProjectService) ACL(projectID uint64) (*models.Project, authz.ProjectACL, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authz.ProjectACL{}, ErrProjectNotFound
		}
		return nil, authz.ProjectACL{}, fmt.Errorf("failed to find project: %w", err)
	}

	shares, err := s.projectRepo.ListShares(projectID)
	if err != nil {
		return nil, authz.ProjectACL{}, fmt.Errorf("failed to list project shares: %w", err)
	}

	return project, authz.ACLForProject(project, shares), nil
}

// GetProjectWithShares returns a project and its share entries, gated on the
// viewer being a participant.
func (s *ProjectService) GetProjectWithShares(projectID, viewerID uint64) (*models.Project, []models.ProjectShare, error) {
	project, acl, err := s.ACL(projectID)
	if err != nil {
		return nil, nil, err
	}

	if !acl.CanView(viewerID) {
		return nil, nil, ErrNoProjectAccess
	}

	shares, err := s.projectRepo.ListShares(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project shares: %w", err)
	}

	return project, shares, nil
}

// ShareProject grants a user view-and-create access to a project. Only the
// owner may share; re-sharing with an already-shared user is reported as
// already shared without creating a second entry.
func (s *ProjectService) ShareProject(projectID, actorID uint64, username string) error {
	project, acl, err := s.ACL(projectID)
	if err != nil {
		return err
	}

	if !acl.CanShare(actorID) {
		return ErrNotProjectOwner
	}

	target, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShareUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if target.ID == project.OwnerID {
		return ErrShareWithOwner
	}

	if acl.IsShared(target.ID) {
		return ErrAlreadyShared
	}

	share := &models.ProjectShare{
		ProjectID: project.ID,
		UserID:    target.ID,
		CreatedAt: time.Now(),
	}
	if err := s.projectRepo.AddShare(share); err != nil {
		return fmt.Errorf("failed to share project: %w", err)
	}

	return nil
}

// Participants returns the project owner followed by all shared users.
func (s *ProjectService) Participants(project *models.Project) ([]models.User, error) {
	participants, err := s.projectRepo.ListParticipants(project)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}
