package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SearchHandler serves user, post and hashtag search
type SearchHandler struct {
	search *services.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{search: searchService}
}

// RegisterSearchRoutes registers search routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search/users", h.SearchUsers)
	g.GET("/search/posts", h.SearchPosts)
	g.GET("/search/hashtags", h.SearchHashtags)
	g.GET("/hashtags/trending", h.Trending)
}

func (h *SearchHandler) SearchUsers(c echo.Context) error {
	users, err := h.search.Users(c.Request().Context(), getUserIDFromContext(c), c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}

func (h *SearchHandler) SearchPosts(c echo.Context) error {
	posts, err := h.search.Posts(c.Request().Context(), getUserIDFromContext(c), c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

func (h *SearchHandler) SearchHashtags(c echo.Context) error {
	tags, err := h.search.Hashtags(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"hashtags": tags}})
}

// Trending returns the most used hashtags
func (h *SearchHandler) Trending(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	tags, err := h.search.Trending(c.Request().Context(), limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"hashtags": tags}})
}
