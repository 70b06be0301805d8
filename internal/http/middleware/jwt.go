package middleware

import (
	"net/http"
	"strings"

	"github.com/tmavroeid/rockpaperscissors-game/internal/service"

	"github.com/gin-gonic/gin"
)

const accountKey = "account"

// JWT authenticates the request from the Authorization: Bearer header and
// stores the account in the gin context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		account, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

// Account returns the authenticated account set by JWT.
func Account(c *gin.Context) (string, bool) {
	account := c.GetString(accountKey)
	return account, account != ""
}
