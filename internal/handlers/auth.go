package handlers

import (
	"context"
	"net/http"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/auth"
	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/logging"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// IDTokenVerifier verifies Firebase ID tokens. *firebaseauth.Client
// satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	directory *services.DirectoryService
	tokens    *auth.TokenManager
	firebase  IDTokenVerifier
}

// NewAuthHandler creates a new AuthHandler. firebase may be nil, in which
// case Firebase login is unavailable.
func NewAuthHandler(directory *services.DirectoryService, tokens *auth.TokenManager, firebase IDTokenVerifier) *AuthHandler {
	return &AuthHandler{
		directory: directory,
		tokens:    tokens,
		firebase:  firebase,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a local account and returns a token for it
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.directory.CreateUser(c.Request().Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return h.respondWithToken(c, http.StatusCreated, user)
}

// Login exchanges a username and password for a token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.directory.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

// FirebaseLogin verifies a Firebase ID token and issues a local token,
// creating the local user on first sign-in
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebase == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "Firebase login is not configured.")
	}

	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebase.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		logging.Debug().Err(err).Msg("firebase token rejected")
		return errs.Errorf(errs.EUNAUTHORIZED, "Invalid Firebase ID token.")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	user, err := h.directory.FirebaseUser(ctx, token.UID, email, name)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, user *models.User) error {
	token, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}
	return c.JSON(status, authResponse{Token: token, User: user})
}
