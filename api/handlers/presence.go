package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/services"
)

// UpdatePresence upserts the caller's own presence row.
func UpdatePresence(presence *services.PresenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.PresenceUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		caller := middleware.CurrentUser(c)
		row, err := presence.Update(c.Request.Context(), caller.ID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, services.Snapshot(row, caller.DisplayName))
	}
}

func MyPresence(presence *services.PresenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		row, err := presence.Get(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, services.Snapshot(row, caller.DisplayName))
	}
}

// PartnerPresence resolves the pairing first and fails closed (404
// no-partner) for unpaired callers.
func PartnerPresence(pairing *services.PairingService, presence *services.PresenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		partner, err := pairing.GetPartner(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		row, err := presence.Get(c.Request.Context(), partner.ID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, services.Snapshot(row, partner.DisplayName))
	}
}
