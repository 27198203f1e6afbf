package task

import (
	"net/http"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/middleware"

	"github.com/gin-gonic/gin"
)

// AssignTaskController registers assignment changes. Assigning notifies
// the new assignee; unassigning sends nothing.
func AssignTaskController(router *gin.Engine, s *controller.Services) {
	routes := router.Group("/tasks/:id/assign", s.Auth)
	{
		routes.PUT("", func(c *gin.Context) {
			AssignTask(c, s)
		})
		routes.DELETE("", func(c *gin.Context) {
			UnassignTask(c, s)
		})
	}
}

func AssignTask(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignTaskRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	task, err := s.Tasks.Assign(c.Request.Context(), middleware.CurrentUser(c), id, req.UserID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task assigned successfully", "task": task})
}

func UnassignTask(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	task, err := s.Tasks.Unassign(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task unassigned successfully", "task": task})
}
