package dto

import (
	"github.com/yukikurage/project-tracker/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     uint64 `json:"owner_id"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      models.TaskStatus `json:"status"`
	ProjectID   uint64            `json:"project_id"`
	AssignedTo  *UserDTO          `json:"assigned_to,omitempty"`
}

// DashboardDTO represents the dashboard payload: the viewer's owned and
// shared projects plus any pending notices.
type DashboardDTO struct {
	OwnedProjects  []ProjectDTO `json:"owned_projects"`
	SharedProjects []ProjectDTO `json:"shared_projects"`
	Notices        []string     `json:"notices,omitempty"`
}

// ProjectDetailDTO represents a project with its tasks and share set.
type ProjectDetailDTO struct {
	ProjectDTO
	Tasks       []TaskDTO `json:"tasks"`
	SharedUsers []UserDTO `json:"shared_users"`
	Notices     []string  `json:"notices,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		ProjectID:   task.ProjectID,
	}

	// Include assignee if preloaded
	if task.AssignedTo != nil && task.AssignedTo.ID != 0 {
		assignee := ToUserDTO(*task.AssignedTo)
		assignee.Email = ""
		dto.AssignedTo = &assignee
	}

	return dto
}

// ToProjectDetailDTO converts a project with tasks and shares to a detail DTO
func ToProjectDetailDTO(project models.Project, tasks []models.Task, shares []models.ProjectShare, notices []string) ProjectDetailDTO {
	taskDTOs := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		taskDTOs[i] = ToTaskDTO(t)
	}

	sharedUsers := make([]UserDTO, len(shares))
	for i, s := range shares {
		u := ToUserDTO(s.User)
		u.Email = ""
		sharedUsers[i] = u
	}

	return ProjectDetailDTO{
		ProjectDTO:  ToProjectDTO(project),
		Tasks:       taskDTOs,
		SharedUsers: sharedUsers,
		Notices:     notices,
	}
}
