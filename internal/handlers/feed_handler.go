package handlers

import (
	"context"
	"net/http"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles the rolling feed
type FeedHandler struct {
	postRepository       repositories.PostRepository
	friendshipRepository repositories.FriendshipRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, friendshipRepo repositories.FriendshipRepository) *FeedHandler {
	return &FeedHandler{
		postRepository:       postRepo,
		friendshipRepository: friendshipRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/ws/feed", h.StreamFeed)
}

// GetFeed returns the rolling-window feed restricted to the caller's
// friends plus their own posts. The window cutoff slides with every read.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)
	ctx := c.Request().Context()

	friendIDs, err := h.friendshipRepository.GetFriendIDs(ctx, firebaseUID)
	if err != nil {
		return httpError(err)
	}

	posts, err := h.postRepository.GetFeedPosts(ctx, append(friendIDs, firebaseUID))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// StreamFeed pushes live snapshots of the recent-posts window over a
// WebSocket; the minute tick keeps the sliding cutoff honest even when
// nothing changes.
func (h *FeedHandler) StreamFeed(c echo.Context) error {
	return streamSnapshots(c, func(ctx context.Context, send func(v interface{})) error {
		return h.postRepository.WatchRecent(ctx, func(posts []models.Post) {
			send(echo.Map{"posts": posts})
		})
	})
}
