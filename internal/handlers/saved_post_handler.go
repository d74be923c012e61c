package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles bookmarks
type SavedPostHandler struct {
	posts *services.PostService
	feed  *services.FeedService
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(postService *services.PostService, feedService *services.FeedService) *SavedPostHandler {
	return &SavedPostHandler{posts: postService, feed: feedService}
}

// RegisterSavedPostRoutes registers bookmark routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.SavePost)
	g.DELETE("/posts/:id/save", h.UnsavePost)
	g.GET("/saved-posts", h.GetSavedPosts)
}

// SavePost bookmarks a post
func (h *SavedPostHandler) SavePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.SavePost(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Post saved"})
}

// UnsavePost removes a bookmark
func (h *SavedPostHandler) UnsavePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.UnsavePost(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post removed from saved"})
}

// GetSavedPosts lists the caller's bookmarks, newest save first
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	result, err := h.feed.GetSavedPosts(c.Request().Context(), getUserIDFromContext(c), parsePage(c, defaultPageSize))
	if err != nil {
		return toHTTPError(err)
	}
	return postPageResponse(c, result)
}
