package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/api/middleware"
	"atlas/errs"
	"atlas/services"
)

type RegisterRequest struct {
	FriendCode string  `json:"friend_code" binding:"required"`
	Username   string  `json:"username" binding:"required"`
	AvatarURL  *string `json:"avatar_url"`
}

type RegisterResponse struct {
	ID         string  `json:"id"`
	FriendCode string  `json:"friend_code"`
	Username   string  `json:"username"`
	AuthToken  string  `json:"auth_token"`
	PartnerID  *string `json:"partner_id"`
}

// Register creates or upserts an identity by friend code. Registering an
// existing code again returns the same id and token, with the display name
// updated.
func Register(users *services.UserService, pairing *services.PairingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		user, err := users.Register(c.Request.Context(), req.FriendCode, req.Username, req.AvatarURL)
		if err != nil {
			respondErr(c, err)
			return
		}

		partnerID, err := pairing.PartnerID(c.Request.Context(), user.ID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, RegisterResponse{
			ID:         user.ID,
			FriendCode: user.FriendCode,
			Username:   user.DisplayName,
			AuthToken:  user.Token,
			PartnerID:  partnerID,
		})
	}
}

// Validate is the public friend-code existence check. It exposes only the
// non-sensitive projection, never the token.
func Validate(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.Validate(c.Request.Context(), c.Param("code"))
		if err != nil {
			// Only a genuinely unknown code is the negative answer; store
			// failures surface as errors.
			if errs.IsKind(err, errs.KindNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"valid": false, "user": nil})
				return
			}
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true, "user": user.Public()})
	}
}

type LinkPartnerRequest struct {
	FriendCode string `json:"friend_code" binding:"required"`
}

func LinkPartner(pairing *services.PairingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LinkPartnerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		caller := middleware.CurrentUser(c)
		partner, err := pairing.Link(c.Request.Context(), caller, req.FriendCode)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "partner": partner.Public()})
	}
}

func UnlinkPartner(pairing *services.PairingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CurrentUser(c)
		if err := pairing.Unlink(c.Request.Context(), caller.ID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
