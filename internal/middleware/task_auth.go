package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker/internal/authz"
	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/models"
)

// RequireTaskAccess checks that the current user is a participant of the
// task's project. Non-participants get 404 rather than 403 so task
// existence never leaks.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().First(&task, taskID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, task.ProjectID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			c.Abort()
			return
		}

		var shares []models.ProjectShare
		if err := database.GetDB().
			Where("project_id = ?", project.ID).
			Find(&shares).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project shares"})
			c.Abort()
			return
		}

		acl := authz.ACLForProject(&project, shares)
		if !acl.CanView(userID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}
