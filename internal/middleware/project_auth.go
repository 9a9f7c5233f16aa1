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

// RequireProjectAccess checks that the current user is the project's owner
// or a shared user. A missing project and a project the user cannot see get
// the same generic denial, so existence never leaks.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			denyProject(c)
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			denyProject(c)
			return
		}

		var shares []models.ProjectShare
		if err := database.GetDB().
			Where("project_id = ?", projectID).
			Find(&shares).Error; err != nil {
			denyProject(c)
			return
		}

		acl := authz.ACLForProject(&project, shares)
		if !acl.CanView(userID) {
			denyProject(c)
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

func denyProject(c *gin.Context) {
	AddFlash(c, "Access denied.")
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}
