package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post CRUD and per-user/per-tag listings
type PostHandler struct {
	posts *services.PostService
	feed  *services.FeedService
	users *services.UserService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService, feedService *services.FeedService, userService *services.UserService) *PostHandler {
	return &PostHandler{posts: postService, feed: feedService, users: userService}
}

// RegisterPostRoutes registers post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:username/posts", h.GetUserPosts)
	g.GET("/hashtags/:tag/posts", h.GetHashtagPosts)
}

// CreatePost publishes a post for the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	me, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.CreatePost(c.Request().Context(), me, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// GetPost returns a single post and counts the view
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post})
}

// DeletePost removes one of the caller's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted"})
}

// GetUserPosts lists :username's posts visible to the caller
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	result, err := h.feed.GetUserPosts(c.Request().Context(), getUserIDFromContext(c), c.Param("username"), parsePage(c, defaultPageSize))
	if err != nil {
		return toHTTPError(err)
	}
	return postPageResponse(c, result)
}

// GetHashtagPosts lists visible posts tagged with :tag
func (h *PostHandler) GetHashtagPosts(c echo.Context) error {
	result, err := h.feed.GetHashtagPosts(c.Request().Context(), getUserIDFromContext(c), c.Param("tag"), parsePage(c, defaultPageSize))
	if err != nil {
		return toHTTPError(err)
	}
	return postPageResponse(c, result)
}

func postPageResponse(c echo.Context, result *models.PostPage) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": result.Posts},
		"meta":    result.Meta,
	})
}
