package handlers

import (
	"net/http"
	"strings"

	"github.com/tmavroeid/rockpaperscissors-game/internal/service"

	"github.com/gin-gonic/gin"
)

type DevAuthRequest struct {
	Account string `json:"account"`
}

// DevAuth issues a session token for any account name. It is only routed
// in development mode; production tokens come from an external issuer
// sharing JWT_SECRET.
func (h *Handler) DevAuth(c *gin.Context) {
	var req DevAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	account := strings.TrimSpace(req.Account)
	if account == "" || len(account) > 128 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account required"})
		return
	}

	token, err := service.GenerateJWT(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	if h.Audit != nil {
		h.Audit.LogLogin(c.Request.Context(), account, c.ClientIP(), c.Request.UserAgent())
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "account": account})
}
