package project

import (
	"net/http"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/middleware"
	"projectflow/model"

	"github.com/gin-gonic/gin"
)

func ProjectController(router *gin.Engine, s *controller.Services) {
	routes := router.Group("/projects", s.Auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListProjects(c, s)
		})
		routes.POST("", func(c *gin.Context) {
			CreateProject(c, s)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetProject(c, s)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateProject(c, s)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteProject(c, s)
		})
		routes.PUT("/:id/status", func(c *gin.Context) {
			UpdateStatus(c, s)
		})
		routes.PUT("/:id/board-stage", func(c *gin.Context) {
			AssignBoardStage(c, s)
		})
		routes.GET("/:id/timeline", func(c *gin.Context) {
			Timeline(c, s)
		})
	}
}

func ListProjects(c *gin.Context, s *controller.Services) {
	projects, err := s.Projects.List(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "statuses": statusOptions()})
}

func statusOptions() []gin.H {
	out := make([]gin.H, 0, len(model.ProjectStatuses()))
	for _, st := range model.ProjectStatuses() {
		out = append(out, gin.H{"value": st, "label": st.Label()})
	}
	return out
}

func CreateProject(c *gin.Context, s *controller.Services) {
	var req dto.CreateProjectRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	project, err := s.Projects.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Project created successfully", "project": project})
}

func GetProject(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	project, err := s.Projects.Get(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func UpdateProject(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	project, err := s.Projects.Update(c.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project updated successfully", "project": project})
}

func DeleteProject(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	if err := s.Projects.Delete(c.Request.Context(), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
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
	project, err := s.Workflow.SetProjectStatus(c.Request.Context(), id, model.ProjectStatus(req.Status))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project status updated successfully", "project": project})
}

func AssignBoardStage(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignBoardStageRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	project, err := s.Workflow.AssignBoardStage(c.Request.Context(), id, req.BoardStageID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board stage updated successfully", "project": project})
}

func Timeline(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	project, err := s.Projects.Timeline(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project, "tasks": project.Tasks})
}
