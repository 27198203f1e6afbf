package comment

import (
	"net/http"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/middleware"

	"github.com/gin-gonic/gin"
)

func CommentController(router *gin.Engine, s *controller.Services) {
	routes := router.Group("/tasks/:id/comments", s.Auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListComments(c, s)
		})
		routes.POST("", func(c *gin.Context) {
			CreateComment(c, s)
		})
		routes.PUT("/:comment", func(c *gin.Context) {
			UpdateComment(c, s)
		})
		routes.DELETE("/:comment", func(c *gin.Context) {
			DeleteComment(c, s)
		})
	}
}

func ListComments(c *gin.Context, s *controller.Services) {
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	comments, err := s.Comments.List(c.Request.Context(), taskID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func CreateComment(c *gin.Context, s *controller.Services) {
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	comment, err := s.Comments.Create(c.Request.Context(), middleware.CurrentUser(c), taskID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully", "comment": comment})
}

func UpdateComment(c *gin.Context, s *controller.Services) {
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	commentID, ok := controller.ParamID(c, "comment")
	if !ok {
		return
	}
	var req dto.UpdateCommentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	comment, err := s.Comments.Update(c.Request.Context(), middleware.CurrentUser(c), taskID, commentID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated successfully", "comment": comment})
}

func DeleteComment(c *gin.Context, s *controller.Services) {
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	commentID, ok := controller.ParamID(c, "comment")
	if !ok {
		return
	}
	if err := s.Comments.Delete(c.Request.Context(), middleware.CurrentUser(c), taskID, commentID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
