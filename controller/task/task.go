package task

import (
	"net/http"

	"projectflow/controller"
	"projectflow/dto"

	"github.com/gin-gonic/gin"
)

func TaskController(router *gin.Engine, s *controller.Services) {
	routes := router.Group("/tasks", s.Auth)
	{
		routes.GET("/:id", func(c *gin.Context) {
			GetTask(c, s)
		})
		routes.PUT("/:id/status", func(c *gin.Context) {
			UpdateStatus(c, s)
		})
	}
}

func GetTask(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	task, err := s.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func UpdateStatus(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	task, err := s.Tasks.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task status updated successfully", "task": task})
}
