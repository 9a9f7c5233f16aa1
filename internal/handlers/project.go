package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/dto"
	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/middleware"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/services"
)

// ProjectHandler coordinates dashboard, project, and sharing endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

// Dashboard lists the current user's owned and shared projects.
func (h *ProjectHandler) Dashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	owned, shared, err := h.projectService.Dashboard(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, dto.DashboardDTO{
		OwnedProjects:  dto.ToProjectDTOs(owned),
		SharedProjects: dto.ToProjectDTOs(shared),
		Notices:        middleware.PopFlashes(c),
	})
}

// CreateProject creates a project owned by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	name := c.PostForm("name")
	description := c.PostForm("description")

	_, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        name,
		Description: description,
		OwnerID:     userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectName) {
			middleware.AddFlash(c, "Project name is required.")
		} else {
			middleware.AddFlash(c, "Failed to create project. Please try again.")
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	middleware.AddFlash(c, "Project created successfully.")
	c.Redirect(http.StatusFound, "/")
}

// ProjectDetail returns a project with its tasks and share set.
// Access is enforced by RequireProjectAccess.
func (h *ProjectHandler) ProjectDetail(c *gin.Context) {
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

	tasks, err := h.taskService.ListProjectTasks(project.ID, userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load tasks")
		return
	}

	_, shares, err := h.projectService.GetProjectWithShares(project.ID, userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load project shares")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(project, tasks, shares, middleware.PopFlashes(c)))
}

// ShareProject adds a user, looked up by username, to the project's share
// set. Owner only; re-sharing reports "already shared" without error.
func (h *ProjectHandler) ShareProject(c *gin.Context) {
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

	username := c.PostForm("username")
	detailURL := fmt.Sprintf("/projects/%d", project.ID)

	err := h.projectService.ShareProject(project.ID, userID, username)
	switch {
	case err == nil:
		middleware.AddFlash(c, "Project shared successfully.")
		c.Redirect(http.StatusFound, detailURL)
	case errors.Is(err, services.ErrNotProjectOwner):
		middleware.AddFlash(c, "Only the project owner can share the project.")
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, services.ErrShareUserNotFound):
		middleware.AddFlash(c, "User not found.")
		c.Redirect(http.StatusFound, detailURL)
	case errors.Is(err, services.ErrShareWithOwner):
		middleware.AddFlash(c, "You cannot share a project with yourself.")
		c.Redirect(http.StatusFound, detailURL)
	case errors.Is(err, services.ErrAlreadyShared):
		middleware.AddFlash(c, "Project already shared with that user.")
		c.Redirect(http.StatusFound, detailURL)
	default:
		middleware.AddFlash(c, "Failed to share project. Please try again.")
		c.Redirect(http.StatusFound, detailURL)
	}
}
