package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct messages
type MessageHandler struct {
	messages *services.MessageService
	users    *services.UserService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *services.MessageService, userService *services.UserService) *MessageHandler {
	return &MessageHandler{messages: messageService, users: userService}
}

// RegisterMessageRoutes registers message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/conversations", h.GetConversations)
	g.GET("/messages/unread-count", h.GetUnreadCount)
	g.GET("/messages/:id", h.GetThread)
}

// SendMessage sends a direct message
func (h *MessageHandler) SendMessage(c echo.Context) error {
	me, err := currentUser(c, h.users)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.messages.Send(c.Request().Context(), me, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": msg})
}

// GetConversations lists the caller's conversations, most recent first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	convs, err := h.messages.Conversations(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversations": convs}})
}

// GetThread returns the messages exchanged with user :id and marks them read
func (h *MessageHandler) GetThread(c echo.Context) error {
	partnerID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	msgs, meta, err := h.messages.Thread(c.Request().Context(), getUserIDFromContext(c), partnerID, parsePage(c, 30))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"messages": msgs}, "meta": meta})
}

// GetUnreadCount returns how many messages the caller has not read
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.messages.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"unread_count": count}})
}
