package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, notifRepo repositories.NotificationRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes/toggle", h.ToggleLike)
	g.GET("/posts/:post_id/likes/status", h.GetLikeStatus)
}

// ToggleLike flips the caller's like on a post. The ledger entry and both
// counters move in one transaction; the notification is enqueued afterwards,
// best-effort, and only for the "like" direction.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)
	postID := c.Param("post_id")

	result, err := h.likeRepository.Toggle(c.Request().Context(), postID, firebaseUID)
	if err != nil {
		return httpError(err)
	}

	if result.Liked {
		notifyErr := h.notificationRepository.Enqueue(context.Background(), repositories.EnqueueParams{
			RecipientUID: result.PostAuthorUID,
			ActorUID:     firebaseUID,
			Type:         models.NotificationPostLiked,
			PostID:       postID,
		})
		if notifyErr != nil {
			log.Printf("failed to enqueue post_liked notification: %v", notifyErr)
		}
	}

	return c.JSON(http.StatusOK, result)
}

// GetLikeStatus reports whether the caller has liked the post
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)
	postID := c.Param("post_id")

	liked, err := h.likeRepository.HasUserLikedPost(c.Request().Context(), postID, firebaseUID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "liked": liked})
}
