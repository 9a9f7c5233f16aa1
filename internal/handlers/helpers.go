package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads the :id path parameter as an unsigned integer.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
