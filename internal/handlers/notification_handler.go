package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler serves the recipient's notifications
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	n := g.Group("/notifications")
	n.GET("", h.GetNotifications)
	n.GET("/grouped", h.GetGrouped)
	n.GET("/unread-count", h.GetUnreadCount)
	n.PUT("/read-all", h.MarkAllAsRead)
	n.PUT("/:id/read", h.MarkAsRead)
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	result, err := h.notifications.List(c.Request().Context(), getUserIDFromContext(c), parsePage(c, 20))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": result.Notifications,
			"unread_count":  result.UnreadCount,
		},
		"meta": result.Meta,
	})
}

// GetGrouped returns notifications bucketed by age
func (h *NotificationHandler) GetGrouped(c echo.Context) error {
	groups, unread, err := h.notifications.Grouped(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": groups,
			"unread_count":  unread,
		},
	})
}

// GetUnreadCount returns the caller's unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"unread_count": count}})
}

// MarkAsRead marks one notification read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Request().Context(), id, getUserIDFromContext(c)); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the caller read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	n, err := h.notifications.MarkAllRead(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"updated": n}})
}
