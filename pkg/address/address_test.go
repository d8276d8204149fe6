package address

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "derek_ink", Normalize("  @Derek_Ink  "))
	assert.Equal(t, "alice", Normalize("@@alice"))
	assert.Equal(t, "bob42", Normalize("BOB42"))
}

func TestIsValid(t *testing.T) {
	valid := []string{"abc", "derek_ink", "a1_b2", "alice2", "12345678901234567890"}
	for _, handle := range valid {
		assert.True(t, IsValid(handle), handle)
	}

	invalid := []string{"", "ab", "has space", "UPPER", "dash-ed", "dot.ted", "123456789012345678901", "@alice"}
	for _, handle := range invalid {
		assert.False(t, IsValid(handle), handle)
	}
}

func TestLooksLikeStreetAddress(t *testing.T) {
	assert.True(t, LooksLikeStreetAddress("42_main_st"))
	assert.True(t, LooksLikeStreetAddress("1600_penn_ave"))
	assert.False(t, LooksLikeStreetAddress("derek_ink"))
	// A street keyword alone is fine without a leading house number.
	assert.False(t, LooksLikeStreetAddress("street_artist"))
}

func TestCooldown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, CanChange(nil, now))

	lastChanged := now.Add(-CooldownDays*24*time.Hour + time.Second)
	assert.False(t, CanChange(&lastChanged, now))

	lastChanged = now.Add(-CooldownDays*24*time.Hour - time.Second)
	assert.True(t, CanChange(&lastChanged, now))

	// Exactly on the boundary the change is allowed.
	lastChanged = now.Add(-CooldownDays * 24 * time.Hour)
	assert.True(t, CanChange(&lastChanged, now))

	assert.Equal(t, lastChanged.Add(CooldownDays*24*time.Hour), NextChangeAt(lastChanged))
}
