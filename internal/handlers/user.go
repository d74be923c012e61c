package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile requests
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{users: userService}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.PUT("/users/me", h.UpdateProfile)
	g.GET("/users/suggestions", h.GetSuggestions)
	g.GET("/users/:username", h.GetProfile)
}

// GetProfile returns a profile by username with stats
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.users.GetProfile(c.Request().Context(), getUserIDFromContext(c), c.Param("username"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profile})
}

// UpdateProfile changes the caller's profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.Request().Context(), getUserIDFromContext(c), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// GetSuggestions lists accounts the caller does not follow yet
func (h *UserHandler) GetSuggestions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	users, err := h.users.GetSuggestions(c.Request().Context(), getUserIDFromContext(c), limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}
