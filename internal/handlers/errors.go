package handlers

import (
	"errors"
	"net/http"

	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// httpError maps store errors onto HTTP responses. Validation, conflict,
// forbidden and not-found errors carry their message through verbatim;
// anything unrecognized is a transient backend failure and surfaces
// generically.
func httpError(err error) error {
	var cooldown *repositories.CooldownError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrGone):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	case errors.Is(err, repositories.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrAlreadyDeleted),
		errors.Is(err, repositories.ErrAddressTaken),
		errors.Is(err, repositories.ErrDuplicateRequest),
		errors.Is(err, repositories.ErrAlreadyFriends):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrSelfFriend),
		errors.Is(err, repositories.ErrWrongPost):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &cooldown):
		return echo.NewHTTPError(http.StatusTooManyRequests, echo.Map{
			"message":         cooldown.Error(),
			"next_allowed_at": cooldown.NextAllowedAt,
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong, please try again")
	}
}
