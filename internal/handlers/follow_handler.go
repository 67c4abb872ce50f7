package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	actions *services.Actions
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(actions *services.Actions) *FollowHandler {
	return &FollowHandler{actions: actions}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.POST("/users/:id/follow", h.FollowUser, requireUser)
	g.POST("/users/:id/unfollow", h.UnfollowUser, requireUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser, requireUser)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	targetID, err := pathID(c, "User")
	if err != nil {
		return err
	}
	target, _, err := h.actions.FollowUser(c.Request().Context(), currentUser(c), targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail(fmt.Sprintf("Now following %s.", target.Username)))
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	targetID, err := pathID(c, "User")
	if err != nil {
		return err
	}
	target, err := h.actions.UnfollowUser(c.Request().Context(), currentUser(c), targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail(fmt.Sprintf("Unfollowed %s.", target.Username)))
}
