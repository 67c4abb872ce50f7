package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes. All of them
// act on the current user's notifications.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.GET("/notifications", h.GetNotifications, requireUser)
	g.GET("/notifications/unread-count", h.GetUnreadCount, requireUser)
	g.POST("/notifications/mark-read", h.MarkAllAsRead, requireUser)
	g.PUT("/notifications/mark-read", h.MarkAllAsRead, requireUser)
	g.PATCH("/notifications/mark-read", h.MarkAllAsRead, requireUser)
}

// enrich attaches the actor summary and the resolved target. Targets whose
// entity no longer exists render as null.
func (h *NotificationHandler) enrich(c echo.Context, n *models.Notification) (models.NotificationResponse, error) {
	ctx := c.Request().Context()
	resp := models.NotificationResponse{Notification: *n}

	actor, err := h.notifications.Actor(ctx, n)
	if err != nil {
		return resp, err
	}
	if actor != nil {
		compact := actor.ToCompact()
		resp.Actor = &compact
	}

	if target, ok := n.Target(); ok {
		resolved, err := h.notifications.Resolve(ctx, target)
		switch {
		case err == nil:
			resp.Target = &target
			resp.TargetRepr = services.Describe(resolved)
		case !errs.Is(err, errs.ENOTFOUND):
			return resp, err
		}
	}
	return resp, nil
}

// GetNotifications lists the current user's notifications, newest first.
// ?unread=1, true or True restricts the list to unread ones.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	unreadOnly := false
	switch c.QueryParam("unread") {
	case "1", "true", "True":
		unreadOnly = true
	}

	notifications, err := h.notifications.ListFor(c.Request().Context(), currentUser(c), unreadOnly)
	if err != nil {
		return err
	}
	out := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		resp, err := h.enrich(c, &notifications[i])
		if err != nil {
			return err
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAllAsRead marks every notification of the current user as read and
// returns the most recent one, or null when there are none
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	if err := h.notifications.MarkAllRead(ctx, user); err != nil {
		return err
	}

	notifications, err := h.notifications.ListFor(ctx, user, false)
	if err != nil {
		return err
	}
	if len(notifications) == 0 {
		return c.JSON(http.StatusOK, nil)
	}
	resp, err := h.enrich(c, &notifications[0])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
