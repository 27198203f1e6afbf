// Package controller holds the pieces shared by the resource controllers:
// the service set they are wired with and the error-to-response mapping.
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"projectflow/notify"
	"projectflow/services"

	"github.com/gin-gonic/gin"
)

// Services is everything a resource controller may call.
type Services struct {
	Workflow    *services.Workflow
	Projects    *services.ProjectService
	Tasks       *services.TaskService
	Comments    *services.CommentService
	Attachments *services.AttachmentService
	Users       *services.UserService
	Query       *services.QueryService
	// Inbox is nil when push notifications are not configured.
	Inbox *notify.PushTransport

	Auth     gin.HandlerFunc
	Secret   []byte
	TokenTTL time.Duration
}

// RespondError writes the JSON error response for err.
func RespondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var serr *services.StorageError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to modify this resource"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStageNotRemovable):
		c.JSON(http.StatusConflict, gin.H{"error": "Stage not removable"})
	case errors.As(err, &serr):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to " + serr.Op + " file " + serr.Path})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// BindJSON decodes the body into req. Malformed JSON is a 400, binding
// rule failures a 422.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if verr := services.ValidationFrom(err); verr != nil {
			RespondError(c, verr)
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return false
	}
	return true
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
