package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	content *services.ContentService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(content *services.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

// RegisterPostRoutes registers post-related routes. Reads are public.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.GET("/posts", h.GetPosts)
	g.POST("/posts", h.CreatePost, requireUser)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost, requireUser)
	g.PATCH("/posts/:id", h.UpdatePost, requireUser)
	g.DELETE("/posts/:id", h.DeletePost, requireUser)
}

// postResponses decorates posts with their author username and comment count
func postResponses(c echo.Context, content *services.ContentService, posts []models.Post) ([]models.PostResponse, error) {
	counts, err := content.CommentCounts(c.Request().Context(), posts)
	if err != nil {
		return nil, err
	}
	out := make([]models.PostResponse, len(posts))
	for i, p := range posts {
		out[i] = models.PostResponse{
			Post:           p,
			AuthorUsername: p.Author.Username,
			CommentsCount:  counts[p.ID],
		}
	}
	return out, nil
}

func (h *PostHandler) respond(c echo.Context, status int, post *models.Post) error {
	out, err := postResponses(c, h.content, []models.Post{*post})
	if err != nil {
		return err
	}
	return c.JSON(status, out[0])
}

// CreatePost creates a new post authored by the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.content.CreatePost(c.Request().Context(), currentUser(c), req.Title, req.Content)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := pathID(c, "Post")
	if err != nil {
		return err
	}
	post, err := h.content.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, post)
}

// GetPosts lists posts. Supports ?author=, ?search= and ?ordering=.
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.content.ListPosts(c.Request().Context(), listQuery(c, "author"))
	if err != nil {
		return err
	}
	out, err := postResponses(c, h.content, posts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// UpdatePost updates the title or content of a post owned by the current user
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := pathID(c, "Post")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.content.UpdatePost(c.Request().Context(), currentUser(c), id, services.PostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, post)
}

// DeletePost deletes a post owned by the current user
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := pathID(c, "Post")
	if err != nil {
		return err
	}
	if err := h.content.DeletePost(c.Request().Context(), currentUser(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
