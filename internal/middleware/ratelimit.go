package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
)

// RateLimit returns a Gin middleware that limits requests per client IP.
// state: the shared counter store (Redis in production), required.
// maxRequests: requests allowed per window.
// window: counting window, refreshed on every request.
func RateLimit(state repository.StateRepository, maxRequests int, window time.Duration) gin.HandlerFunc {
	// Check dependencies at startup.
	if state == nil {
		panic("StateRepository cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		// Keyed by client IP. Behind a reverse proxy, gin's trusted proxy
		// settings decide which header ClientIP reads.
		key := "ip:" + c.ClientIP()

		// The store increments the counter and refreshes its expiry in one
		// round trip and reports whether the count went past maxRequests.
		exceeded, err := state.CheckRateLimit(c.Request.Context(), key, maxRequests, window)
		if err != nil {
			logrus.WithError(err).Error("RateLimit: state store check failed")
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Rate limiting error"})
			c.Abort()
			return
		}

		if exceeded {
			logrus.WithField("client_ip", c.ClientIP()).Debug("RateLimit: request rejected")
			c.JSON(http.StatusTooManyRequests, gin.H{"status": "error", "error": "Too many requests"})
			c.Abort()
			return
		}

		c.Next() // under the limit
	}
}
