package dashboard

import (
	"net/http"

	"projectflow/controller"

	"github.com/gin-gonic/gin"
)

func DashboardController(router *gin.Engine, s *controller.Services) {
	router.GET("/dashboard", s.Auth, func(c *gin.Context) {
		Dashboard(c, s)
	})
	router.GET("/calendar", s.Auth, func(c *gin.Context) {
		Calendar(c, s)
	})
}

func Dashboard(c *gin.Context, s *controller.Services) {
	stats, err := s.Query.Dashboard(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func Calendar(c *gin.Context, s *controller.Services) {
	view, err := s.Query.Calendar(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
