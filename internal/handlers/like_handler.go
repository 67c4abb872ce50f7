package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	content *services.ContentService
	actions *services.Actions
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(content *services.ContentService, actions *services.Actions) *LikeHandler {
	return &LikeHandler{content: content, actions: actions}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.POST("/posts/:id/like", h.LikePost, requireUser)
	g.POST("/posts/:id/unlike", h.UnlikePost, requireUser)
	g.GET("/posts/:id/likes", h.GetLikes)
}

// LikePost likes a post. 201 when the like is new, 200 when it already existed.
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID, err := pathID(c, "Post")
	if err != nil {
		return err
	}
	res, err := h.actions.LikePost(c.Request().Context(), currentUser(c), postID)
	if err != nil {
		return err
	}
	if res.Created {
		return c.JSON(http.StatusCreated, detail("Post liked."))
	}
	return c.JSON(http.StatusOK, detail("Already liked."))
}

// UnlikePost removes the current user's like
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID, err := pathID(c, "Post")
	if err != nil {
		return err
	}
	if err := h.actions.UnlikePost(c.Request().Context(), currentUser(c), postID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail("Post unliked."))
}

// GetLikes returns the like count of a post and, for authenticated
// requests, whether the current user likes it
func (h *LikeHandler) GetLikes(c echo.Context) error {
	postID, err := pathID(c, "Post")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.content.GetPost(ctx, postID); err != nil {
		return err
	}
	count, err := h.content.LikeCount(ctx, postID)
	if err != nil {
		return err
	}
	resp := echo.Map{"post": postID, "likes_count": count}
	if user := currentUser(c); user != nil {
		liked, err := h.content.HasLiked(ctx, user.ID, postID)
		if err != nil {
			return err
		}
		resp["liked"] = liked
	}
	return c.JSON(http.StatusOK, resp)
}
