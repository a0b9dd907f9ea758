package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/models"
	"atlas/services"
)

func UploadGachaStats(gacha *services.GachaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.UpsertStatsInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		caller := middleware.CurrentUser(c)
		stat, err := gacha.Upsert(c.Request.Context(), caller.ID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, stat)
	}
}

func MyGachaStats(gacha *services.GachaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		stats, err := gacha.ListForUser(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

func withUser(stat models.GameStat, username string) models.GameStatWithUser {
	return models.GameStatWithUser{
		UserID:        stat.UserID,
		Username:      username,
		Game:          stat.Game,
		TotalPulls:    stat.TotalPulls,
		FiveStarCount: stat.FiveStarCount,
		FourStarCount: stat.FourStarCount,
		AveragePity:   stat.AveragePity,
		CurrentPity:   stat.CurrentPity,
		UpdatedAt:     stat.UpdatedAt,
	}
}

// PartnerGachaStats returns every game aggregate the partner has uploaded.
func PartnerGachaStats(pairing *services.PairingService, gacha *services.GachaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		partner, err := pairing.GetPartner(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		stats, err := gacha.ListForUser(c.Request.Context(), partner.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		annotated := make([]models.GameStatWithUser, 0, len(stats))
		for _, stat := range stats {
			annotated = append(annotated, withUser(stat, partner.DisplayName))
		}
		c.JSON(http.StatusOK, gin.H{
			"partner_id":       partner.ID,
			"partner_username": partner.DisplayName,
			"stats":            annotated,
		})
	}
}

// PartnerGachaStatsForGame returns the partner's aggregate for one game.
func PartnerGachaStatsForGame(pairing *services.PairingService, gacha *services.GachaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		partner, err := pairing.GetPartner(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		stat, err := gacha.Get(c.Request.Context(), partner.ID, c.Param("game"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, withUser(*stat, partner.DisplayName))
	}
}
