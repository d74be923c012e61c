package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles ephemeral stories
type StoryHandler struct {
	stories *services.StoryService
	users   *services.UserService
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyService *services.StoryService, userService *services.UserService) *StoryHandler {
	return &StoryHandler{stories: storyService, users: userService}
}

// RegisterStoryRoutes registers story routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetStoryFeed)
	g.GET("/users/:username/stories", h.GetUserStories)
	g.POST("/stories/:id/view", h.ViewStory)
	g.GET("/stories/:id/viewers", h.GetViewers)
	g.POST("/stories/:id/reply", h.ReplyToStory)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// CreateStory publishes a story that expires after a day
func (h *StoryHandler) CreateStory(c echo.Context) error {
	var req models.CreateStoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	story, err := h.stories.CreateStory(c.Request().Context(), getUserIDFromContext(c), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": story})
}

// GetStoryFeed returns active stories grouped by owner
func (h *StoryHandler) GetStoryFeed(c echo.Context) error {
	groups, err := h.stories.GetStoryFeed(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stories": groups}})
}

// GetUserStories returns one account's active stories
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	group, err := h.stories.GetUserStories(c.Request().Context(), getUserIDFromContext(c), c.Param("username"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": group})
}

// ViewStory records that the caller saw a story; repeats are no-ops
func (h *StoryHandler) ViewStory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	recorded, err := h.stories.ViewStory(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"recorded": recorded}})
}

// GetViewers lists who viewed one of the caller's stories
func (h *StoryHandler) GetViewers(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	viewers, err := h.stories.GetViewers(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"viewers": viewers}})
}

// ReplyToStory sends a direct message to the story's owner
func (h *StoryHandler) ReplyToStory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	me, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	var req models.StoryReplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.stories.ReplyToStory(c.Request().Context(), me, id, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": msg})
}

// DeleteStory removes one of the caller's stories
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.stories.DeleteStory(c.Request().Context(), getUserIDFromContext(c), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Story deleted"})
}
