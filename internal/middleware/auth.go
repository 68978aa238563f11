package middleware

import (
	"net/http"
	"strings"

	"marketplace-api/internal/response"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
)

// AccountAuthMiddleware resolves the caller's account from a bearer token.
// The token was issued at wallet login and maps to an account id in Redis;
// handlers read "account_id" from the gin context.
func AccountAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing bearer token"))
			c.Abort()
			return
		}

		sessionService := services.NewSessionService()
		accountID, err := sessionService.ResolveSession(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("account_id", accountID)
		c.Set("bearer_token", token)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
