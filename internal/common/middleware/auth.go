package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Session termination lives in the upstream gateway; it forwards the
// authenticated profile ID in this header. Requests reaching this service
// without it are treated as anonymous.
const HeaderUserID = "X-Profile-ID"

// RequireUser aborts requests that carry no authenticated profile ID and
// stores the ID in the context for handlers.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: authenticated profile required"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// UserID returns the authenticated profile ID set by RequireUser.
func UserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}
