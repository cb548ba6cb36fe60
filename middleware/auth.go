package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aivora/aivora-backend/utils"
)

// SessionCookie carries the access token for browser clients.
const SessionCookie = "aivora_session"

const identityKey = "identity"

// AuthMiddleware accepts the access token from the Authorization header,
// X-Auth-Token (iOS clients) or the session cookie, and stores the identity
// carried by its claims.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := tokenFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		identity, err := claims.Identity()
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.UserID)
		c.Next()
	}
}

// CurrentIdentity is only valid behind AuthMiddleware.
func CurrentIdentity(c *gin.Context) (utils.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return utils.Identity{}, false
	}
	id, ok := v.(utils.Identity)
	return id, ok
}

func tokenFromRequest(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.GetHeader("X-Auth-Token")
	}
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}
