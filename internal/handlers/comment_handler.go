package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetThread)
	g.GET("/ws/posts/:post_id/comments", h.StreamThread)
	g.DELETE("/comments/:id", h.DeleteOwnComment)
	g.PUT("/comments/:id/hide", h.HideComment)
	g.PUT("/comments/:id/remove", h.RemoveComment)
}

// CreateComment adds a comment or a reply, then fans out notifications: a
// reply notifies the parent comment's author, and the post author too when
// they differ; a root comment notifies only the post author. Fan-out is
// best-effort and never unwinds the insert.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile, err := h.userRepository.GetProfile(ctx, firebaseUID)
	if err != nil {
		return httpError(err)
	}

	created, err := h.commentRepository.CreateComment(ctx, repositories.CreateCommentParams{
		ActorUID:        firebaseUID,
		ActorAddress:    profile.Address,
		PostID:          postID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return httpError(err)
	}

	h.fanOut(firebaseUID, created)

	return c.JSON(http.StatusCreated, created.Comment)
}

func (h *CommentHandler) fanOut(actorUID string, created *repositories.CreatedComment) {
	enqueue := func(recipientUID, notificationType string) {
		err := h.notificationRepository.Enqueue(context.Background(), repositories.EnqueueParams{
			RecipientUID: recipientUID,
			ActorUID:     actorUID,
			Type:         notificationType,
			PostID:       created.Comment.PostID,
			CommentID:    created.Comment.ID,
		})
		if err != nil {
			log.Printf("failed to enqueue %s notification: %v", notificationType, err)
		}
	}

	if created.ParentAuthorUID != "" {
		enqueue(created.ParentAuthorUID, models.NotificationCommentReplied)
		if created.PostAuthorUID != created.ParentAuthorUID {
			enqueue(created.PostAuthorUID, models.NotificationPostCommented)
		}
		return
	}

	enqueue(created.PostAuthorUID, models.NotificationPostCommented)
}

// GetThread returns the post's visible comment thread
func (h *CommentHandler) GetThread(c echo.Context) error {
	thread, err := h.commentRepository.GetThread(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, thread)
}

// StreamThread pushes live snapshots of the visible thread over a WebSocket
func (h *CommentHandler) StreamThread(c echo.Context) error {
	postID := c.Param("post_id")

	return streamSnapshots(c, func(ctx context.Context, send func(v interface{})) error {
		return h.commentRepository.WatchThread(ctx, postID, func(thread *models.CommentThread) {
			send(thread)
		})
	})
}

// DeleteOwnComment lets a comment's author remove it
func (h *CommentHandler) DeleteOwnComment(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	if err := h.commentRepository.DeleteOwnComment(c.Request().Context(), c.Param("id"), firebaseUID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// HideComment lets the post owner hide a comment on their post
func (h *CommentHandler) HideComment(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	if err := h.commentRepository.HideForPostOwner(c.Request().Context(), c.Param("id"), firebaseUID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RemoveComment lets the post owner delete a comment on their post
func (h *CommentHandler) RemoveComment(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	if err := h.commentRepository.DeleteForPostOwner(c.Request().Context(), c.Param("id"), firebaseUID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
