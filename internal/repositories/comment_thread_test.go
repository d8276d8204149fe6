package repositories

import (
	"testing"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentAt(id, parentID string, createdAt time.Time) models.Comment {
	root := id
	if parentID != "" {
		root = parentID
	}
	return models.Comment{
		ID:              id,
		PostID:          "post1",
		ParentCommentID: parentID,
		RootCommentID:   root,
		CreatedAt:       createdAt,
	}
}

func TestBuildCommentThreadGroupsAndSorts(t *testing.T) {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	// Deliberately out of order to exercise the sort.
	comments := []models.Comment{
		commentAt("root2", "", base.Add(2*time.Minute)),
		commentAt("reply1b", "root1", base.Add(4*time.Minute)),
		commentAt("root1", "", base),
		commentAt("reply1a", "root1", base.Add(3*time.Minute)),
		commentAt("reply2a", "root2", base.Add(5*time.Minute)),
	}

	thread := BuildCommentThread(comments)

	require.Len(t, thread.Roots, 2)
	assert.Equal(t, "root1", thread.Roots[0].ID)
	assert.Equal(t, "root2", thread.Roots[1].ID)

	require.Len(t, thread.RepliesByParentID["root1"], 2)
	assert.Equal(t, "reply1a", thread.RepliesByParentID["root1"][0].ID)
	assert.Equal(t, "reply1b", thread.RepliesByParentID["root1"][1].ID)
	require.Len(t, thread.RepliesByParentID["root2"], 1)
}

func TestBuildCommentThreadFiltersRemovedComments(t *testing.T) {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	hidden := commentAt("root1", "", base)
	hidden.HiddenByPostOwner = true
	deleted := commentAt("reply1a", "root1", base.Add(time.Minute))
	deleted.DeletedByAuthor = true
	removed := commentAt("root2", "", base.Add(2*time.Minute))
	removed.DeletedByPostOwner = true

	// Replies survive the removal of their parent: flags never cascade.
	orphanReply := commentAt("reply1b", "root1", base.Add(3*time.Minute))

	thread := BuildCommentThread([]models.Comment{hidden, deleted, removed, orphanReply})

	assert.Empty(t, thread.Roots)
	require.Len(t, thread.RepliesByParentID["root1"], 1)
	assert.Equal(t, "reply1b", thread.RepliesByParentID["root1"][0].ID)
}

func TestBuildCommentThreadEmptyInput(t *testing.T) {
	thread := BuildCommentThread(nil)
	require.NotNil(t, thread)
	assert.NotNil(t, thread.Roots)
	assert.NotNil(t, thread.RepliesByParentID)
}
