package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles the follow graph
type FollowHandler struct {
	users *services.UserService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userService *services.UserService) *FollowHandler {
	return &FollowHandler{users: userService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:username/follow", h.Follow)
	g.DELETE("/users/:username/follow", h.Unfollow)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
}

// Follow makes the caller follow :username
func (h *FollowHandler) Follow(c echo.Context) error {
	me, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	target, err := h.users.Follow(c.Request().Context(), me, c.Param("username"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Now following " + target.Username,
	})
}

// Unfollow removes the caller's follow of :username
func (h *FollowHandler) Unfollow(c echo.Context) error {
	if err := h.users.Unfollow(c.Request().Context(), getUserIDFromContext(c), c.Param("username")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Unfollowed"})
}

// GetFollowers lists who follows :username
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	users, meta, err := h.users.GetFollowers(c.Request().Context(), getUserIDFromContext(c), c.Param("username"), parsePage(c, 20))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}, "meta": meta})
}

// GetFollowing lists whom :username follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	users, meta, err := h.users.GetFollowing(c.Request().Context(), getUserIDFromContext(c), c.Param("username"), parsePage(c, 20))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}, "meta": meta})
}
