package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipRepository   repositories.FriendshipRepository
	notificationRepository repositories.NotificationRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, notifRepo repositories.NotificationRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository:   friendshipRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/requests", h.SendRequest)
	g.GET("/friends/requests", h.GetIncomingRequests)
	g.GET("/ws/friends/requests", h.StreamIncomingRequests)
	g.PUT("/friends/requests/:id/accept", h.AcceptRequest)
	g.GET("/friends", h.GetFriends)
	g.GET("/friends/:uid/status", h.GetFriendStatus)
	g.DELETE("/friends/:uid", h.RemoveFriend)
}

// SendRequest sends a friend request. The duplicate and already-friends
// checks are precondition reads outside any transaction, so two users
// racing can still produce crossed pending requests; accepting either one
// lands on the same deterministic friendship record.
func (h *FriendshipHandler) SendRequest(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	var req models.SendFriendRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	friends, err := h.friendshipRepository.AreFriends(ctx, firebaseUID, req.ToUID)
	if err != nil {
		return httpError(err)
	}
	if friends {
		return httpError(repositories.ErrAlreadyFriends)
	}

	pending, err := h.friendshipRepository.HasPendingRequestBetween(ctx, firebaseUID, req.ToUID)
	if err != nil {
		return httpError(err)
	}
	if pending {
		return httpError(repositories.ErrDuplicateRequest)
	}

	request, err := h.friendshipRepository.SendRequest(ctx, firebaseUID, req.ToUID)
	if err != nil {
		return httpError(err)
	}

	h.notify(req.ToUID, firebaseUID, models.NotificationFriendRequestReceived)

	return c.JSON(http.StatusCreated, request)
}

func (h *FriendshipHandler) notify(recipientUID, actorUID, notificationType string) {
	err := h.notificationRepository.Enqueue(context.Background(), repositories.EnqueueParams{
		RecipientUID: recipientUID,
		ActorUID:     actorUID,
		Type:         notificationType,
	})
	if err != nil {
		log.Printf("failed to enqueue %s notification: %v", notificationType, err)
	}
}

// GetIncomingRequests lists pending requests addressed to the caller
func (h *FriendshipHandler) GetIncomingRequests(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	requests, err := h.friendshipRepository.GetIncomingRequests(c.Request().Context(), firebaseUID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, requests)
}

// StreamIncomingRequests pushes live snapshots of the caller's pending
// requests over a WebSocket
func (h *FriendshipHandler) StreamIncomingRequests(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	return streamSnapshots(c, func(ctx context.Context, send func(v interface{})) error {
		return h.friendshipRepository.WatchIncomingRequests(ctx, firebaseUID, func(requests []models.FriendRequest) {
			send(echo.Map{"requests": requests})
		})
	})
}

// AcceptRequest accepts a pending request addressed to the caller. Repeating
// the accept is idempotent: the friendship id is deterministic for the pair.
func (h *FriendshipHandler) AcceptRequest(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)
	requestID := c.Param("id")

	ctx := c.Request().Context()

	request, err := h.friendshipRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		return httpError(err)
	}
	if request.ToUID != firebaseUID {
		return httpError(repositories.ErrForbidden)
	}

	if err := h.friendshipRepository.AcceptRequest(ctx, requestID, request.FromUID, request.ToUID); err != nil {
		return httpError(err)
	}

	h.notify(request.FromUID, firebaseUID, models.NotificationFriendRequestAccepted)

	return c.JSON(http.StatusOK, echo.Map{
		"friendship_id": models.FriendshipID(request.FromUID, request.ToUID),
	})
}

// GetFriends lists the caller's friend uids
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	friendIDs, err := h.friendshipRepository.GetFriendIDs(c.Request().Context(), firebaseUID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"friend_ids": friendIDs})
}

// GetFriendStatus reports the edge and pending-request state between the
// caller and another user
func (h *FriendshipHandler) GetFriendStatus(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)
	otherUID := c.Param("uid")

	ctx := c.Request().Context()

	friends, err := h.friendshipRepository.AreFriends(ctx, firebaseUID, otherUID)
	if err != nil {
		return httpError(err)
	}

	pending, err := h.friendshipRepository.HasPendingRequestBetween(ctx, firebaseUID, otherUID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"are_friends": friends, "request_pending": pending})
}

// RemoveFriend deletes the edge with another user; absent edges are a no-op
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	if err := h.friendshipRepository.RemoveFriend(c.Request().Context(), firebaseUID, c.Param("uid")); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
