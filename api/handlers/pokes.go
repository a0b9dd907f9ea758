package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/services"
)

type SendPokeRequest struct {
	Emoji string `json:"emoji"`
}

func SendPoke(pairing *services.PairingService, pokes *services.PokeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendPokeRequest
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

		poke, err := pokes.Send(c.Request.Context(), caller.ID, partner.ID, req.Emoji)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, poke)
	}
}

func ListPokes(pokes *services.PokeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		since, limit := listParams(c)
		list, err := pokes.ListReceived(c.Request.Context(), caller.ID, since, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pokes": list})
	}
}

func ListSentPokes(pokes *services.PokeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		since, limit := listParams(c)
		list, err := pokes.ListSent(c.Request.Context(), caller.ID, since, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pokes": list})
	}
}
