package handlers

import (
	"context"
	"net/http"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/ws/posts/:id", h.StreamPost)
}

// CreatePost creates a new post. The author's current handle is snapshotted
// onto the post and intentionally never refreshed afterwards.
func (h *PostHandler) CreatePost(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	var req models.CreatePostRequest
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

	post, err := h.postRepository.CreatePost(ctx, firebaseUID, profile.Address, req.Content)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID; soft-deleted posts read as gone
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost soft-deletes the caller's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	if err := h.postRepository.DeleteOwnPost(c.Request().Context(), c.Param("id"), firebaseUID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// StreamPost pushes live snapshots of one post over a WebSocket; a missing
// or deleted post arrives as null
func (h *PostHandler) StreamPost(c echo.Context) error {
	postID := c.Param("id")

	return streamSnapshots(c, func(ctx context.Context, send func(v interface{})) error {
		return h.postRepository.WatchPost(ctx, postID, func(post *models.Post) {
			send(echo.Map{"post": post})
		})
	})
}
