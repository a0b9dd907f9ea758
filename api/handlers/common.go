package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"atlas/errs"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// respondErr maps a service error to its status and body in one place.
func respondErr(c *gin.Context, err error) {
	c.JSON(errs.HTTPStatus(err), gin.H{"error": errs.Message(err)})
}

// listParams parses the shared since/limit query parameters with the
// server-enforced default and cap.
func listParams(c *gin.Context) (since int64, limit int) {
	since, _ = strconv.ParseInt(c.Query("since"), 10, 64)
	if since < 0 {
		since = 0
	}
	limit = defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return since, limit
}
