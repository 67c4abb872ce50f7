package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile and user directory HTTP requests
type UserHandler struct {
	directory *services.DirectoryService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(directory *services.DirectoryService) *UserHandler {
	return &UserHandler{directory: directory}
}

// RegisterUserRoutes registers profile and user routes. Profile routes act
// on the authenticated user; the rest are public.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireUser echo.MiddlewareFunc) {
	g.GET("/profile", h.GetProfile, requireUser)
	g.PUT("/profile", h.UpdateProfile, requireUser)
	g.PATCH("/profile", h.UpdateProfile, requireUser)
	g.DELETE("/profile", h.DeleteProfile, requireUser)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// UserDetail is a user with follow graph counts. IsFollowing is set when
// the request is authenticated.
type UserDetail struct {
	*models.User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    *bool `json:"is_following,omitempty"`
}

func (h *UserHandler) userDetail(c echo.Context, user *models.User) (*UserDetail, error) {
	ctx := c.Request().Context()
	followers, following, err := h.directory.FollowCounts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	d := &UserDetail{User: user, FollowersCount: followers, FollowingCount: following}
	if actor := currentUser(c); actor != nil && actor.ID != user.ID {
		ok, err := h.directory.IsFollowing(ctx, actor.ID, user.ID)
		if err != nil {
			return nil, err
		}
		d.IsFollowing = &ok
	}
	return d, nil
}

// GetProfile returns the authenticated user
func (h *UserHandler) GetProfile(c echo.Context) error {
	d, err := h.userDetail(c, currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateProfile changes the authenticated user's email, bio or picture
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.directory.UpdateProfile(c.Request().Context(), currentUser(c), services.ProfileInput{
		Email:          req.Email,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return err
	}
	d, err := h.userDetail(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// DeleteProfile deletes the authenticated user and everything it owns
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	if err := h.directory.DeleteUser(c.Request().Context(), currentUser(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUser returns a user by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "User")
	if err != nil {
		return err
	}
	user, err := h.directory.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	d, err := h.userDetail(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// SearchUsers finds users whose username or email contains q
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.directory.SearchUsers(c.Request().Context(), strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

// GetFollowers lists the users following :id
func (h *UserHandler) GetFollowers(c echo.Context) error {
	id, err := pathID(c, "User")
	if err != nil {
		return err
	}
	users, err := h.directory.Followers(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

// GetFollowing lists the users :id follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	id, err := pathID(c, "User")
	if err != nil {
		return err
	}
	users, err := h.directory.Following(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out
}
