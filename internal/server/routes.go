package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/wellmeing/internal/constants"
)

func (s *Server) routes(r *gin.Engine) {
	r.Use(gin.Recovery())
	r.Use(CORS())

	r.GET("/healthz", func(c *gin.Context) {
		RespondSuccess(c, gin.H{"status": "ok", "version": constants.Version})
	})

	users := r.Group("/users/:user")
	users.Use(Logger(), s.userLoader())

	users.GET("", s.getUser)
	users.PUT("/profile", s.putProfile)

	users.PUT("/habits/:habit", s.putHabit)
	users.DELETE("/habits/:habit", s.deleteHabit)
	users.POST("/habits/:habit/submissions", s.postSubmission)
	users.DELETE("/habits/:habit/submissions/:id", s.deleteSubmission)

	users.GET("/window", s.getWindow)
	users.GET("/charts", s.getCharts)
	users.GET("/charts/:habit/:metric", s.getChart)

	users.POST("/reports", s.postReport)
	users.DELETE("/reports/:date", s.deleteReport)

	users.POST("/speech", s.postSpeech)
	users.POST("/actions", s.postActions)

	r.NoRoute(func(c *gin.Context) {
		RespondError(c, "not found", http.StatusNotFound)
	})
}
