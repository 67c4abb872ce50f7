package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	content *services.ContentService
	actions *services.Actions
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(content *services.ContentService, actions *services.Actions) *CommentHandler {
	return &CommentHandler{content: content, actions: actions}
}

// RegisterCommentRoutes registers comment-related routes. Reads are public.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.GET("/comments", h.GetComments)
	g.POST("/comments", h.CreateComment, requireUser)
	g.GET("/comments/:id", h.GetComment)
	g.PUT("/comments/:id", h.UpdateComment, requireUser)
	g.PATCH("/comments/:id", h.UpdateComment, requireUser)
	g.DELETE("/comments/:id", h.DeleteComment, requireUser)
	g.GET("/posts/:id/comments", h.GetPostComments)
	g.POST("/posts/:id/comments", h.CreatePostComment, requireUser)
}

func commentResponse(comment *models.Comment) models.CommentResponse {
	return models.CommentResponse{Comment: *comment, AuthorUsername: comment.Author.Username}
}

func commentResponses(comments []models.Comment) []models.CommentResponse {
	out := make([]models.CommentResponse, len(comments))
	for i := range comments {
		out[i] = commentResponse(&comments[i])
	}
	return out
}

// GetComments lists comments. Supports ?post=, ?author=, ?search= and ?ordering=.
func (h *CommentHandler) GetComments(c echo.Context) error {
	comments, err := h.content.ListComments(c.Request().Context(), listQuery(c, "post", "author"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentResponses(comments))
}

// GetPostComments lists the comments of post :id
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	postID, err := pathID(c, "Post")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.content.GetPost(ctx, postID); err != nil {
		return err
	}
	q := listQuery(c, "author")
	q.Filters["post"] = postID
	comments, err := h.content.ListComments(ctx, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentResponses(comments))
}

// CreateComment adds a comment to the post named in the body
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.PostID == 0 {
		return errs.Invalid("post", "This field is required.")
	}
	return h.createComment(c, req.PostID, req.Content, true)
}

// CreatePostComment adds a comment to post :id
func (h *CommentHandler) CreatePostComment(c echo.Context) error {
	postID, err := pathID(c, "Post")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.createComment(c, postID, req.Content, false)
}

// createComment runs the comment action. A missing post named in the body
// is a validation error on the post field rather than a 404.
func (h *CommentHandler) createComment(c echo.Context, postID uint, content string, postFromBody bool) error {
	comment, err := h.actions.CommentOnPost(c.Request().Context(), currentUser(c), postID, content)
	if postFromBody && errs.Is(err, errs.ENOTFOUND) {
		return errs.Invalid("post", "Invalid pk - object does not exist.")
	} else if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, commentResponse(comment))
}

// GetComment retrieves a comment by ID
func (h *CommentHandler) GetComment(c echo.Context) error {
	id, err := pathID(c, "Comment")
	if err != nil {
		return err
	}
	comment, err := h.content.GetComment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentResponse(comment))
}

// UpdateComment replaces the content of a comment owned by the current user
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id, err := pathID(c, "Comment")
	if err != nil {
		return err
	}
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.content.UpdateComment(c.Request().Context(), currentUser(c), id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentResponse(comment))
}

// DeleteComment deletes a comment owned by the current user
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := pathID(c, "Comment")
	if err != nil {
		return err
	}
	if err := h.content.DeleteComment(c.Request().Context(), currentUser(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
