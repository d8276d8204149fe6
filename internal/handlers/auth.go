package handlers

import (
	"errors"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/derekink/postcard/backend/pkg/address"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles account creation against the auth provider
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.SignUp)
	g.GET("/address-availability", h.AddressAvailability)
}

func validateHandle(raw string) (string, error) {
	normalized := address.Normalize(raw)
	if !address.IsValid(normalized) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "@ddress must be 3-20 characters of lowercase letters, numbers, and underscore")
	}
	if address.LooksLikeStreetAddress(normalized) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "@ddress should be a username handle (like derek_ink), not a street address")
	}
	return normalized, nil
}

// SignUp creates the auth account and the initial profile. The profile and
// its handle reservation commit in one transaction; the auth account is
// created first and torn down best-effort if that transaction fails.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req models.SignUpRequest
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

	ctx := c.Request().Context()

	// Cheap precondition read; the transaction re-checks authoritatively.
	available, err := h.userRepository.IsAddressAvailable(ctx, normalized)
	if err != nil {
		return httpError(err)
	}
	if !available {
		return httpError(repositories.ErrAddressTaken)
	}

	userToCreate := (&auth.UserToCreate{}).
		Email(req.Email).
		Password(req.Password).
		DisplayName(req.DisplayName).
		EmailVerified(false)

	userRecord, err := h.firebaseAuth.CreateUser(ctx, userToCreate)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, "Could not create account: "+err.Error())
	}

	if err := h.userRepository.CreateInitialProfile(ctx, userRecord.UID, req.Email, req.DisplayName, normalized); err != nil {
		// Roll back the auth account so the email is not left claimed.
		if cleanupErr := h.firebaseAuth.DeleteUser(ctx, userRecord.UID); cleanupErr != nil {
			if errors.Is(err, repositories.ErrAddressTaken) {
				return echo.NewHTTPError(http.StatusConflict, "That @ddress is already taken. The partially created account may still exist; try signing in or signing up again later.")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "Sign-up failed and cleanup did not complete; the account may still exist.")
		}
		return httpError(err)
	}

	response := echo.Map{"uid": userRecord.UID, "email": req.Email, "address": normalized}

	// Best effort: a missing link only means the client re-requests one.
	if link, linkErr := h.firebaseAuth.EmailVerificationLink(ctx, req.Email); linkErr == nil {
		response["verification_link"] = link
	}

	return c.JSON(http.StatusCreated, response)
}

// AddressAvailability reports whether a handle is free to claim
func (h *AuthHandler) AddressAvailability(c echo.Context) error {
	normalized, err := validateHandle(c.QueryParam("address"))
	if err != nil {
		return err
	}

	available, err := h.userRepository.IsAddressAvailable(c.Request().Context(), normalized)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"address": normalized, "available": available})
}
