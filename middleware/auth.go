package middleware

import (
	"errors"
	"net/http"

	"quizbuilder/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const userIDKey = "user_id"

// AuthMiddleware admits requests carrying a valid session token and exposes
// the token's user id to handlers. The user row itself is not re-read.
func AuthMiddleware(sessions *services.SessionService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(services.SessionCookieName)

		session, err := sessions.Resolve(c.Request.Context(), token)
		if errors.Is(err, services.ErrUnauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			log.WithError(err).Error("session resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// RequireSessionCookie only checks that a session cookie is present. It
// guards routes that must work for stale or unverifiable tokens.
func RequireSessionCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(services.SessionCookieName); err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDKey)
	return userID, userID != ""
}
