package task

import (
	"net/http"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/middleware"

	"github.com/gin-gonic/gin"
)

func CreateTaskController(router *gin.Engine, s *controller.Services) {
	router.POST("/tasks", s.Auth, func(c *gin.Context) {
		CreateTask(c, s)
	})
}

func CreateTask(c *gin.Context, s *controller.Services) {
	var req dto.CreateTaskRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	task, err := s.Tasks.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Task created successfully", "task": task})
}
