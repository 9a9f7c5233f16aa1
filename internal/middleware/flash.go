package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AddFlash queues an ephemeral notice for the next page view.
func AddFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	// Save errors only lose the notice, never the response.
	_ = session.Save()
}

// PopFlashes returns and clears all pending notices.
func PopFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save()

	notices := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			notices = append(notices, s)
		}
	}
	return notices
}
