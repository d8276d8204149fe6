package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeID(t *testing.T) {
	assert.Equal(t, "post1_uidA", LikeID("post1", "uidA"))
	// The id is deterministic, so a repeat like resolves to the same document.
	assert.Equal(t, LikeID("post1", "uidA"), LikeID("post1", "uidA"))
	assert.NotEqual(t, LikeID("post1", "uidA"), LikeID("post1", "uidB"))
}

func TestFriendshipID(t *testing.T) {
	// Both directions collapse onto the same edge id.
	assert.Equal(t, FriendshipID("alice", "bob"), FriendshipID("bob", "alice"))
	assert.Equal(t, "alice_bob", FriendshipID("bob", "alice"))
	assert.Equal(t, []string{"alice", "bob"}, SortedPair("bob", "alice"))
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, "theme:rose", ResolveTheme("theme:rose"))
	assert.Equal(t, DefaultTheme, ResolveTheme(""))
	assert.Equal(t, DefaultTheme, ResolveTheme("theme:neon"))
}

func TestCommentVisible(t *testing.T) {
	assert.True(t, Comment{}.Visible())
	assert.False(t, Comment{DeletedByAuthor: true}.Visible())
	assert.False(t, Comment{DeletedByPostOwner: true}.Visible())
	assert.False(t, Comment{HiddenByPostOwner: true}.Visible())
}
