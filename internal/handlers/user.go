package handlers

import (
	"net/http"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile and @ddress HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/me", h.UpdateProfile)
	g.PUT("/users/me/address", h.ChangeAddress)
	g.GET("/users/:address", h.GetProfileByAddress)
	g.GET("/users/:address/posts", h.GetProfilePosts)
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	profile, err := h.userRepository.GetProfile(c.Request().Context(), firebaseUID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies a partial update to display name, bio, images or theme
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userRepository.UpdateProfileFields(c.Request().Context(), firebaseUID, &req); err != nil {
		return httpError(err)
	}

	profile, err := h.userRepository.GetProfile(c.Request().Context(), firebaseUID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// ChangeAddress moves the profile to a new handle, enforcing the cooldown
// and uniqueness rules inside one transaction
func (h *UserHandler) ChangeAddress(c echo.Context) error {
	firebaseUID := c.Get("firebaseUID").(string)

	var req models.ChangeAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	normalized, err := validateHandle(req.Address)
	if err != nil {
		return err
	}

	if err := h.userRepository.ChangeAddress(c.Request().Context(), firebaseUID, normalized); err != nil {
		return httpError(err)
	}

	profile, err := h.userRepository.GetProfile(c.Request().Context(), firebaseUID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetProfileByAddress resolves a handle to its profile
func (h *UserHandler) GetProfileByAddress(c echo.Context) error {
	profile, err := h.userRepository.GetProfileByAddress(c.Request().Context(), c.Param("address"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, profile)
}

// GetProfilePosts returns a page of the profile's non-deleted posts, newest
// first. "before" is the created_at of the previous page's last post.
func (h *UserHandler) GetProfilePosts(c echo.Context) error {
	ctx := c.Request().Context()

	uid, err := h.userRepository.GetUIDByAddress(ctx, c.Param("address"))
	if err != nil {
		return httpError(err)
	}

	var before *time.Time
	if raw := c.QueryParam("before"); raw != "" {
		parsed, parseErr := time.Parse(time.RFC3339Nano, raw)
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "before must be an RFC3339 timestamp")
		}
		before = &parsed
	}

	posts, err := h.postRepository.GetProfilePosts(ctx, uid, repositories.ProfilePostsPageSize, before)
	if err != nil {
		return httpError(err)
	}

	var nextCursor *time.Time
	if len(posts) == repositories.ProfilePostsPageSize {
		nextCursor = &posts[len(posts)-1].CreatedAt
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts, "next_cursor": nextCursor})
}
