package address

import (
	"regexp"
	"strings"
	"time"
)

// Handle length bounds and the change cooldown enforced by the profile store.
const (
	MinLength    = 3
	MaxLength    = 20
	CooldownDays = 7
)

var (
	handleRegex      = regexp.MustCompile(`^[a-z0-9_]+$`)
	houseNumberRegex = regexp.MustCompile(`^\d{1,6}`)
	streetWordRegex  = regexp.MustCompile(`(street|st|avenue|ave|road|rd|drive|dr|lane|ln|blvd|boulevard|court|ct|way|highway|hwy|apt|suite|unit)`)
)

// Normalize trims, lowercases and strips leading "@" characters from a handle.
func Normalize(value string) string {
	return strings.TrimLeft(strings.ToLower(strings.TrimSpace(value)), "@")
}

// IsValid reports whether a normalized handle is well formed.
func IsValid(value string) bool {
	return len(value) >= MinLength && len(value) <= MaxLength && handleRegex.MatchString(value)
}

// LooksLikeStreetAddress flags handles that read like a physical address
// (leading house number plus a street keyword), e.g. "42_main_st". The
// @ddress is a username handle, not a mailing address.
func LooksLikeStreetAddress(value string) bool {
	compact := strings.ReplaceAll(value, "_", "")
	return houseNumberRegex.MatchString(compact) && streetWordRegex.MatchString(compact)
}

// CanChange reports whether the cooldown window has elapsed.
func CanChange(lastChangedAt *time.Time, now time.Time) bool {
	if lastChangedAt == nil {
		return true
	}
	return !now.Before(NextChangeAt(*lastChangedAt))
}

// NextChangeAt returns the earliest instant a changed handle may change again.
func NextChangeAt(lastChangedAt time.Time) time.Time {
	return lastChangedAt.Add(CooldownDays * 24 * time.Hour)
}
