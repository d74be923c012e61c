package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles post likes
type LikeHandler struct {
	posts *services.PostService
	users *services.UserService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postService *services.PostService, userService *services.UserService) *LikeHandler {
	return &LikeHandler{posts: postService, users: userService}
}

// RegisterLikeRoutes registers like routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
	g.GET("/posts/:id/likes", h.GetLikers)
}

// LikePost likes a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	me, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	post, err := h.posts.LikePost(c.Request().Context(), me, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"post_id":     post.ID,
			"likes_count": post.LikesCount,
			"is_liked":    true,
		},
	})
}

// UnlikePost removes the caller's like
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.UnlikePost(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"post_id":     post.ID,
			"likes_count": post.LikesCount,
			"is_liked":    false,
		},
	})
}

// GetLikers lists who liked a post
func (h *LikeHandler) GetLikers(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	users, meta, err := h.posts.GetLikers(c.Request().Context(), getUserIDFromContext(c), id, parsePage(c, 20))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}, "meta": meta})
}
