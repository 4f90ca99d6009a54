package middleware

import (
	"net/http"
	"strings"

	"github.com/cliptube/cliptube/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	// ContextUserIDKey holds the authenticated user's ID as a string.
	ContextUserIDKey = "user_id"
	// ContextClaimsKey holds the full *services.AccessClaims.
	ContextClaimsKey = "access_claims"

	accessTokenCookie = "accessToken"
)

// bearerToken extracts the access token from the Authorization header, or
// falls back to the accessToken cookie set at login.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth rejects requests without a valid access token.
func RequireAuth(tokens *services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"statusCode": http.StatusUnauthorized,
				"message":    "authentication required",
			})
			return
		}

		claims, err := tokens.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"statusCode": http.StatusUnauthorized,
				"message":    "invalid or expired access token",
			})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuth populates the identity when a valid token is present but
// lets anonymous requests through untouched. Handlers behind it read an
// empty user ID for anonymous viewers.
func OptionalAuth(tokens *services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := tokens.ParseAccessToken(token); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
				c.Set(ContextClaimsKey, claims)
			}
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID, or "" for anonymous
// requests.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
