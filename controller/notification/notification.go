package notification

import (
	"errors"
	"net/http"
	"strconv"

	"projectflow/controller"
	"projectflow/middleware"
	"projectflow/notify"

	"github.com/gin-gonic/gin"
)

const (
	defaultInboxLimit = 20
	maxInboxLimit     = 100
)

// NotificationController exposes the caller's in-app inbox. Without a
// push backend the routes answer 503.
func NotificationController(router *gin.Engine, s *controller.Services) {
	routes := router.Group("/notifications", s.Auth)
	{
		routes.GET("", func(c *gin.Context) {
			GetNotifications(c, s)
		})
		routes.PUT("/:item/read", func(c *gin.Context) {
			ReadNotification(c, s)
		})
	}
}

func GetNotifications(c *gin.Context, s *controller.Services) {
	if s.Inbox == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Notifications are not configured"})
		return
	}
	limit := defaultInboxLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxInboxLimit)
	}

	items, err := s.Inbox.Inbox(c.Request.Context(), middleware.CurrentUser(c).UserID, limit)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if items == nil {
		items = []notify.InboxItem{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func ReadNotification(c *gin.Context, s *controller.Services) {
	if s.Inbox == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Notifications are not configured"})
		return
	}
	err := s.Inbox.MarkRead(c.Request.Context(), middleware.CurrentUser(c).UserID, c.Param("item"))
	if err != nil {
		if errors.Is(err, notify.ErrInboxItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
