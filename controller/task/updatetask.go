package task

import (
	"net/http"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/middleware"

	"github.com/gin-gonic/gin"
)

func UpdateTaskController(router *gin.Engine, s *controller.Services) {
	router.PUT("/tasks/:id", s.Auth, func(c *gin.Context) {
		UpdateTask(c, s)
	})
}

func UpdateTask(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	task, err := s.Tasks.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully", "task": task})
}
