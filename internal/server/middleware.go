package server

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/session"
	"github.com/julianstephens/wellmeing/internal/tracker"
)

const trackerKey = "tracker"

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Logger logs method, path, status and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// CORS allows any origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// userLoader loads the document of :user into a fresh session and stores a
// tracker over it in the request context.
func (s *Server) userLoader() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user")
		if !userIDPattern.MatchString(userID) {
			RespondError(c, "invalid user id", http.StatusBadRequest)
			c.Abort()
			return
		}
		sess := session.New(userID, s.store, session.WithClock(s.now))
		if err := sess.Refresh(c.Request.Context()); err != nil {
			logger.Error("Failed to load user", "user", userID, "error", err)
			RespondError(c, "failed to load user", http.StatusInternalServerError)
			c.Abort()
			return
		}
		c.Set(trackerKey, tracker.New(s.store, sess))
		c.Next()
	}
}

func trackerFrom(c *gin.Context) *tracker.Tracker {
	return c.MustGet(trackerKey).(*tracker.Tracker)
}
