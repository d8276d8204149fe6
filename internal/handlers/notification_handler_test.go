package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotifications(t *testing.T) {
	notifRepo := &fakeNotificationRepo{
		notifications: []models.Notification{
			{ID: "n1", RecipientUID: "uid1", ActorUID: "uid2", Type: models.NotificationPostLiked, CreatedAt: time.Now()},
		},
	}
	h := NewNotificationHandler(notifRepo)

	c, rec := newTestContext(t, http.MethodGet, "/notifications", nil)
	c.Set("firebaseUID", "uid1")

	require.NoError(t, h.GetNotifications(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"post_liked"`)
}

func TestGetUnreadCount(t *testing.T) {
	h := NewNotificationHandler(&fakeNotificationRepo{unread: 3})

	c, rec := newTestContext(t, http.MethodGet, "/notifications/unread-count", nil)
	c.Set("firebaseUID", "uid1")

	require.NoError(t, h.GetUnreadCount(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestMarkAllAsRead(t *testing.T) {
	h := NewNotificationHandler(&fakeNotificationRepo{})

	c, rec := newTestContext(t, http.MethodPut, "/notifications/read-all", nil)
	c.Set("firebaseUID", "uid1")

	require.NoError(t, h.MarkAllAsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
