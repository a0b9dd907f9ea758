package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/services"
)

// Poll is the unified delta-sync read: one snapshot across every stream,
// newer than the client's cursor.
func Poll(sync *services.SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		since, _ := strconv.ParseInt(c.Query("since"), 10, 64)
		if since < 0 {
			since = 0
		}

		caller := middleware.CurrentUser(c)
		result, err := sync.Poll(c.Request.Context(), caller, since)
		if err != nil {
			respondErr(c, err)
			return
		}

		switch {
		case !result.HasPartner:
			middleware.RecordSyncPoll("no_partner")
		case result.HasNewData:
			middleware.RecordSyncPoll("new_data")
		default:
			middleware.RecordSyncPoll("no_change")
		}

		c.JSON(http.StatusOK, result)
	}
}

// State is the cold-start snapshot, fetched once per client launch.
func State(sync *services.SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		result, err := sync.State(c.Request.Context(), caller)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
