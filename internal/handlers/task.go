package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker/internal/constants"
	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/middleware"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/services"
)

// TaskHandler coordinates task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task in the project from a submitted form. Owner and
// shared users may create; an optional assignee must be a participant.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectInterface, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	project, ok := projectInterface.(models.Project)
	if !ok {
		apierrors.InternalError(c, "Invalid project data")
		return
	}

	detailURL := fmt.Sprintf("/projects/%d", project.ID)

	_, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID:        project.ID,
		ActorID:          userID,
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		AssigneeUsername: c.PostForm("assignee"),
	})
	switch {
	case err == nil:
		middleware.AddFlash(c, "Task created successfully.")
		c.Redirect(http.StatusFound, detailURL)
	case errors.Is(err, services.ErrInvalidTaskTitle):
		middleware.AddFlash(c, "Task title is required.")
		c.Redirect(http.StatusFound, detailURL)
	case errors.Is(err, services.ErrInvalidAssignee):
		middleware.AddFlash(c, "Assignee must be the project owner or a shared user.")
		c.Redirect(http.StatusFound, detailURL)
	case errors.Is(err, services.ErrNoProjectAccess), errors.Is(err, services.ErrProjectNotFound):
		middleware.AddFlash(c, "Access denied.")
		c.Redirect(http.StatusFound, "/")
	default:
		middleware.AddFlash(c, "Failed to create task. Please try again.")
		c.Redirect(http.StatusFound, detailURL)
	}
}

// UpdateTask updates a task's title, description, and status from a
// submitted form. Owner only.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		middleware.AddFlash(c, "Access denied.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	task, err := h.taskService.UpdateTask(services.UpdateTaskInput{
		TaskID:      taskID,
		ActorID:     userID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Status:      c.PostForm("status"),
	})
	if err != nil {
		h.redirectTaskMutationError(c, err)
		return
	}

	middleware.AddFlash(c, "Task updated successfully.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d", task.ProjectID))
}

// DeleteTask deletes a task. Owner only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		middleware.AddFlash(c, "Access denied.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	projectID, err := h.taskService.DeleteTask(taskID, userID)
	if err != nil {
		h.redirectTaskMutationError(c, err)
		return
	}

	middleware.AddFlash(c, "Task deleted successfully.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/projects/%d", projectID))
}

// UpdateTaskStatus changes a task's status from a JSON body. Owner only.
// The task is loaded and its project access verified by RequireTaskAccess.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskInterface, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Task not found in context"})
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid task data"})
		return
	}

	type StatusRequest struct {
		Status string `json:"status"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.taskService.UpdateTaskStatus(task.ID, userID, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, services.ErrNotProjectOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task status updated successfully"})
}

// redirectTaskMutationError maps task mutation errors to flashes. Denials
// and missing tasks get the same generic notice.
func (h *TaskHandler) redirectTaskMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTaskTitle):
		middleware.AddFlash(c, "Task title is required.")
	case errors.Is(err, services.ErrInvalidStatus):
		middleware.AddFlash(c, "Invalid status.")
	case errors.Is(err, services.ErrNotProjectOwner),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		middleware.AddFlash(c, "Access denied.")
	default:
		middleware.AddFlash(c, "Something went wrong. Please try again.")
	}
	c.Redirect(http.StatusFound, "/")
}
