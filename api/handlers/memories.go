package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/services"
)

func CreateMemory(pairing *services.PairingService, memories *services.MemoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreateMemoryInput
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

		memory, err := memories.Create(c.Request.Context(), caller.ID, partner.ID, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, memory)
	}
}

// ListMemories returns the pair's memories: ascending from the cursor when
// since is supplied, newest-first otherwise.
func ListMemories(pairing *services.PairingService, memories *services.MemoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		partner, err := pairing.GetPartner(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		since, limit := listParams(c)
		ctx := c.Request.Context()
		if since > 0 {
			rows, err := memories.ListSince(ctx, caller.ID, partner.ID, since, limit)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"memories": rows})
			return
		}
		rows, err := memories.ListRecent(ctx, caller.ID, partner.ID, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"memories": rows})
	}
}

func ListCountdowns(pairing *services.PairingService, memories *services.MemoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		partner, err := pairing.GetPartner(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		_, limit := listParams(c)
		rows, err := memories.ListCountdowns(c.Request.Context(), caller.ID, partner.ID, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"memories": rows})
	}
}

func DeleteMemory(memories *services.MemoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		if err := memories.Delete(c.Request.Context(), caller.ID, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
