package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the home feed
type FeedHandler struct {
	feed    *services.FeedService
	content *services.ContentService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService, content *services.ContentService) *FeedHandler {
	return &FeedHandler{feed: feed, content: content}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.GET("/feed", h.GetFeed, requireUser)
}

// GetFeed returns posts by everyone the current user follows, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.feed.FeedFor(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	out, err := postResponses(c, h.content, posts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
