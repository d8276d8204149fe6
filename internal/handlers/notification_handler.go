package handlers

import (
	"context"
	"net/http"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.GET("/ws/notifications", h.StreamNotifications)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	notifications, err := h.notificationRepository.ListForUser(c.Request().Context(), firebaseUID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	count, err := h.notificationRepository.UnreadCount(c.Request().Context(), firebaseUID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// StreamNotifications pushes live snapshots of the caller's notification
// list over a WebSocket
func (h *NotificationHandler) StreamNotifications(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	return streamSnapshots(c, func(ctx context.Context, send func(v interface{})) error {
		return h.notificationRepository.WatchForUser(ctx, firebaseUID, func(notifications []models.Notification) {
			send(echo.Map{"notifications": notifications})
		})
	})
}

// MarkAsRead marks a notification as read; repeating is a no-op
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	if err := h.notificationRepository.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	if err := h.notificationRepository.MarkAllRead(c.Request().Context(), firebaseUID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
