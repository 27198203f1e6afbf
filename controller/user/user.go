package user

import (
	"net/http"

	"projectflow/controller"

	"github.com/gin-gonic/gin"
)

func UserController(router *gin.Engine, s *controller.Services) {
	routes := router.Group("/users", s.Auth)
	{
		routes.GET("", func(c *gin.Context) {
			ReadAllUser(c, s)
		})
		routes.GET("/search", func(c *gin.Context) {
			SearchUsers(c, s)
		})
		routes.GET("/:id", func(c *gin.Context) {
			Profile(c, s)
		})
	}
}

// ReadAllUser lists users with their project and task counts.
func ReadAllUser(c *gin.Context, s *controller.Services) {
	users, err := s.Users.List(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func Profile(c *gin.Context, s *controller.Services) {
	id, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	user, err := s.Users.Show(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func SearchUsers(c *gin.Context, s *controller.Services) {
	users, err := s.Users.Search(c.Request.Context(), c.Query("term"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
