package repositories

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors surfaced by the stores. Handlers map these onto HTTP
// status codes; anything else is treated as a transient backend failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrGone             = errors.New("target has been removed")
	ErrForbidden        = errors.New("actor does not own this resource")
	ErrAlreadyDeleted   = errors.New("post already deleted")
	ErrAddressTaken     = errors.New("address is already taken")
	ErrSelfFriend       = errors.New("you cannot friend yourself")
	ErrDuplicateRequest = errors.New("a pending friend request already exists between these users")
	ErrAlreadyFriends   = errors.New("users are already friends")
	ErrWrongPost        = errors.New("reply target is not part of this post")
)

// CooldownError rejects an address change attempted before the cooldown
// window has elapsed.
type CooldownError struct {
	NextAllowedAt time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("address can only change once per week, next change allowed at %s", e.NextAllowedAt.Format(time.RFC3339))
}
