package task

import (
	"net/http"

	"projectflow/controller"

	"github.com/gin-gonic/gin"
)

func DeleteTaskController(router *gin.Engine, s *controller.Services) {
	router.DELETE("/tasks/:id", s.Auth, func(c *gin.Context) {
		DeleteTask(c, s)
	})
}

func DeleteTask(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := s.Tasks.Delete(c.Request.Context(), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
