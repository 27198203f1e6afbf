package task

import (
	"net/http"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/middleware"

	"github.com/gin-gonic/gin"
)

func AllTasksController(router *gin.Engine, s *controller.Services) {
	routes := router.Group("/tasks", s.Auth)
	{
		routes.GET("", func(c *gin.Context) {
			TaskIndex(c, s)
		})
		routes.GET("/board", func(c *gin.Context) {
			TaskBoard(c, s)
		})
	}
}

func bindFilter(c *gin.Context) (dto.TaskFilter, bool) {
	var filter dto.TaskFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return filter, false
	}
	return filter, true
}

// TaskIndex pages through the caller's assigned tasks.
func TaskIndex(c *gin.Context, s *controller.Services) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	page, err := s.Query.TaskIndex(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": page, "filters": filter})
}

// TaskBoard lists what the caller is assigned or created.
func TaskBoard(c *gin.Context, s *controller.Services) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	tasks, err := s.Query.TaskBoard(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "filters": filter})
}
