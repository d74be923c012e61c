package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth  *services.AuthService
	users *services.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{auth: authService, users: userService}
}

// RegisterAuthRoutes registers the unauthenticated routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/firebase", h.FirebaseLogin)
}

// RegisterSessionRoutes registers routes that need a valid access token
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.GET("/auth/me", h.GetMe)
	g.POST("/auth/logout", h.Logout)
}

func authResponse(c echo.Context, status int, user *models.User, tokens models.TokenPair) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":   user,
			"tokens": tokens,
		},
	})
}

// Register creates an email/password account
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, tokens, err := h.auth.Register(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return authResponse(c, http.StatusCreated, user, tokens)
}

// Login exchanges email and password for a token pair
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, tokens, err := h.auth.Login(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return authResponse(c, http.StatusOK, user, tokens)
}

// Refresh rotates the token pair
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req models.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, tokens, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return toHTTPError(err)
	}
	return authResponse(c, http.StatusOK, user, tokens)
}

// FirebaseLogin signs in (or signs up) with a Firebase ID token
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, tokens, err := h.auth.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return toHTTPError(err)
	}
	return authResponse(c, http.StatusOK, user, tokens)
}

// GetMe returns the caller's profile with stats
func (h *AuthHandler) GetMe(c echo.Context) error {
	profile, err := h.users.GetMe(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profile})
}

// Logout revokes the caller's refresh token
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), getUserIDFromContext(c)); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out"})
}
