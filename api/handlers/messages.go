package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/services"
)

type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage appends a message addressed to the caller's partner.
func SendMessage(pairing *services.PairingService, messages *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendMessageRequest
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

		msg, err := messages.Send(c.Request.Context(), caller.ID, partner.ID, req.Content)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

// ListMessages returns the pair's messages newer than the since cursor.
func ListMessages(pairing *services.PairingService, messages *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		partner, err := pairing.GetPartner(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		since, limit := listParams(c)
		list, err := messages.ListBetween(c.Request.Context(), caller.ID, partner.ID, since, limit)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": list})
	}
}

type MarkReadRequest struct {
	MessageIDs []string `json:"message_ids" binding:"required"`
}

// MarkMessagesRead flips read_at for the caller's unread messages among the
// given ids; foreign and already-read ids are skipped, not errored.
func MarkMessagesRead(messages *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MarkReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		caller := middleware.CurrentUser(c)
		updated, err := messages.MarkRead(c.Request.Context(), caller.ID, req.MessageIDs)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated_count": updated})
	}
}

func UnreadCount(messages *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		count, err := messages.UnreadCount(c.Request.Context(), caller.ID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread_count": count})
	}
}
