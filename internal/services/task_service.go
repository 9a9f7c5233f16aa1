package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-tracker/internal/authz"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidTaskTitle = errors.New("task title cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidAssignee  = errors.New("assignee must be the project owner or a shared user")
)

// TaskService provides business logic for tasks.
type TaskService struct {
	taskRepo   repository.TaskRepository
	userRepo   repository.UserRepository
	projectSvc *ProjectService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, projectSvc *ProjectService) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		projectSvc: projectSvc,
	}
}

// CreateTaskInput represents parameters to create a new task.
type CreateTaskInput struct {
	ProjectID        uint64
	ActorID          uint64
	Title            string
	Description      string
	AssigneeUsername string
}

// CreateTask creates a task in a project. The actor must be the owner or a
// shared user; an assignee, if named, must be a project participant at
// assignment time.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidTaskTitle
	}

	project, acl, err := s.projectSvc.ACL(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if !acl.CanCreateTask(input.ActorID) {
		return nil, ErrNoProjectAccess
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		ProjectID:   project.ID,
	}

	if input.AssigneeUsername != "" {
		assignee, err := s.userRepo.FindByUsername(input.AssigneeUsername)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidAssignee
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		if !acl.CanAssign(assignee.ID) {
			return nil, ErrInvalidAssignee
		}
		task.AssignedToID = &assignee.ID
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents parameters for a full task update.
type UpdateTaskInput struct {
	TaskID      uint64
	ActorID     uint64
	Title       string
	Description string
	Status      string
}

// UpdateTask updates a task's title, description, and status. Owner only.
func (s *TaskService) UpdateTask(input UpdateTaskInput) (*models.Task, error) {
	task, acl, err := s.loadTask(input.TaskID)
	if err != nil {
		return nil, err
	}

	if !acl.CanModifyTask(input.ActorID) {
		return nil, ErrNotProjectOwner
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidTaskTitle
	}

	status := models.TaskStatus(input.Status)
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = status

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// UpdateTaskStatus changes only a task's status. Owner only; the prior
// status is left untouched when the new value is not allowed.
func (s *TaskService) UpdateTaskStatus(taskID, actorID uint64, status string) error {
	task, acl, err := s.loadTask(taskID)
	if err != nil {
		return err
	}

	if !acl.CanModifyTask(actorID) {
		return ErrNotProjectOwner
	}

	newStatus := models.TaskStatus(strings.TrimSpace(status))
	if !newStatus.IsValid() {
		return ErrInvalidStatus
	}

	if err := s.taskRepo.UpdateStatus(task.ID, newStatus); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	return nil
}

// DeleteTask deletes a task and returns the ID of the project it belonged
// to. Owner only.
func (s *TaskService) DeleteTask(taskID, actorID uint64) (uint64, error) {
	task, acl, err := s.loadTask(taskID)
	if err != nil {
		return 0, err
	}

	if !acl.CanModifyTask(actorID) {
		return 0, ErrNotProjectOwner
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}

	return task.ProjectID, nil
}

// ListProjectTasks lists the tasks of a project for a participant.
func (s *TaskService) ListProjectTasks(projectID, viewerID uint64) ([]models.Task, error) {
	_, acl, err := s.projectSvc.ACL(projectID)
	if err != nil {
		return nil, err
	}

	if !acl.CanView(viewerID) {
		return nil, ErrNoProjectAccess
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// loadTask fetches a task together with its project's ACL. Authorization is
// always evaluated against freshly read state.
func (s *TaskService) loadTask(taskID uint64) (*models.Task, authz.ProjectACL, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authz.ProjectACL{}, ErrTaskNotFound
		}
		return nil, authz.ProjectACL{}, fmt.Errorf("failed to find task: %w", err)
	}

	_, acl, err := s.projectSvc.ACL(task.ProjectID)
	if err != nil {
		return nil, authz.ProjectACL{}, err
	}

	return task, acl, nil
}
