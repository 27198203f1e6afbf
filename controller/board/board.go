package board

import (
	"net/http"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/middleware"
	"projectflow/model"

	"github.com/gin-gonic/gin"
)

// BoardController registers the board stage routes for both scopes: a
// project's board and the caller's personal board.
func BoardController(router *gin.Engine, s *controller.Services) {
	projectRoutes := router.Group("/projects/:id/board-stages", s.Auth)
	{
		projectRoutes.GET("", func(c *gin.Context) {
			withProject(c, func(owner model.Owner) { ListStages(c, s, owner) })
		})
		projectRoutes.POST("", func(c *gin.Context) {
			withProject(c, func(owner model.Owner) { CreateStage(c, s, owner) })
		})
		projectRoutes.PUT("/:stage", func(c *gin.Context) {
			withProject(c, func(owner model.Owner) { UpdateStage(c, s, owner) })
		})
		projectRoutes.DELETE("/:stage", func(c *gin.Context) {
			withProject(c, func(owner model.Owner) { DeleteStage(c, s, owner) })
		})
	}

	userRoutes := router.Group("/board-stages", s.Auth)
	{
		userRoutes.GET("", func(c *gin.Context) {
			ListStages(c, s, model.UserOwner(middleware.CurrentUser(c).UserID))
		})
		userRoutes.POST("", func(c *gin.Context) {
			CreateStage(c, s, model.UserOwner(middleware.CurrentUser(c).UserID))
		})
		userRoutes.DELETE("/:stage", func(c *gin.Context) {
			DeleteStage(c, s, model.UserOwner(middleware.CurrentUser(c).UserID))
		})
	}
}

func withProject(c *gin.Context, next func(model.Owner)) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	next(model.ProjectOwner(id))
}

func ListStages(c *gin.Context, s *controller.Services, owner model.Owner) {
	stages, err := s.Workflow.Stages(c.Request.Context(), owner)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"board_stages": stages})
}

func CreateStage(c *gin.Context, s *controller.Services, owner model.Owner) {
	var req dto.CreateStageRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	stage, err := s.Workflow.AddStage(c.Request.Context(), owner, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Board stage created successfully", "board_stage": stage})
}

func UpdateStage(c *gin.Context, s *controller.Services, owner model.Owner) {
	stageID, ok := controller.ParamID(c, "stage")
	if !ok {
		return
	}
	var req dto.UpdateStageRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	stage, err := s.Workflow.UpdateStage(c.Request.Context(), owner, stageID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board stage updated successfully", "board_stage": stage})
}

func DeleteStage(c *gin.Context, s *controller.Services, owner model.Owner) {
	stageID, ok := controller.ParamID(c, "stage")
	if !ok {
		return
	}
	if err := s.Workflow.DeleteStage(c.Request.Context(), owner, stageID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board stage deleted successfully"})
}
