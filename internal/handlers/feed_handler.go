package handlers

import (
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the home feed
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feedService}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the caller's posts plus public posts of accounts they follow
func (h *FeedHandler) GetFeed(c echo.Context) error {
	result, err := h.feed.GetFeed(c.Request().Context(), getUserIDFromContext(c), parsePage(c, defaultPageSize))
	if err != nil {
		return toHTTPError(err)
	}
	return postPageResponse(c, result)
}
