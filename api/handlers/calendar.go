package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/services"
)

func CreateEvent(pairing *services.PairingService, calendar *services.CalendarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreateEventInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		caller := middleware.CurrentUser(c)
		partner, err := pairing.GetPartner(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		event, err := calendar.Create(c.Request.Context(), caller.ID, partner.ID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

// ListEvents returns the pair's events ordered by event datetime, optionally
// windowed with from/to query parameters (epoch ms).
func ListEvents(pairing *services.PairingService, calendar *services.CalendarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		partner, err := pairing.GetPartner(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		_, limit := listParams(c)
		var from, to *int64
		if raw := c.Query("from"); raw != "" {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				from = &n
			}
		}
		if raw := c.Query("to"); raw != "" {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				to = &n
			}
		}

		events, err := calendar.List(c.Request.Context(), caller.ID, partner.ID, from, to, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

func UpdateEvent(calendar *services.CalendarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.UpdateEventInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		caller := middleware.CurrentUser(c)
		event, err := calendar.Update(c.Request.Context(), caller.ID, c.Param("id"), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

func DeleteEvent(calendar *services.CalendarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		if err := calendar.Delete(c.Request.Context(), caller.ID, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
