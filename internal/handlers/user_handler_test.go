package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeAddressInCooldown(t *testing.T) {
	nextAllowed := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	userRepo := &fakeUserRepo{changeAddressErr: &repositories.CooldownError{NextAllowedAt: nextAllowed}}
	h := NewUserHandler(userRepo, &fakePostRepo{})

	c, _ := newTestContext(t, http.MethodPut, "/users/me/address", models.ChangeAddressRequest{Address: "new_handle"})
	c.Set("firebaseUID", "uid1")

	err := h.ChangeAddress(c)
	assert.Equal(t, http.StatusTooManyRequests, httpStatus(t, err))
}

func TestChangeAddressRejectsMalformedHandle(t *testing.T) {
	h := NewUserHandler(&fakeUserRepo{}, &fakePostRepo{})

	for _, handle := range []string{"ab", "Not Lower", "way-too-long-for-a-handle"} {
		c, _ := newTestContext(t, http.MethodPut, "/users/me/address", models.ChangeAddressRequest{Address: handle})
		c.Set("firebaseUID", "uid1")

		err := h.ChangeAddress(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err), handle)
	}
}

func TestChangeAddressRejectsStreetAddress(t *testing.T) {
	h := NewUserHandler(&fakeUserRepo{}, &fakePostRepo{})

	c, _ := newTestContext(t, http.MethodPut, "/users/me/address", models.ChangeAddressRequest{Address: "42_main_st"})
	c.Set("firebaseUID", "uid1")

	err := h.ChangeAddress(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestChangeAddressTaken(t *testing.T) {
	userRepo := &fakeUserRepo{changeAddressErr: repositories.ErrAddressTaken}
	h := NewUserHandler(userRepo, &fakePostRepo{})

	c, _ := newTestContext(t, http.MethodPut, "/users/me/address", models.ChangeAddressRequest{Address: "claimed"})
	c.Set("firebaseUID", "uid1")

	err := h.ChangeAddress(c)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestGetProfileByAddressNotFound(t *testing.T) {
	h := NewUserHandler(&fakeUserRepo{uidByAddress: map[string]string{}}, &fakePostRepo{})

	c, _ := newTestContext(t, http.MethodGet, "/users/nobody", nil)
	c.SetParamNames("address")
	c.SetParamValues("nobody")

	err := h.GetProfileByAddress(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func profilePostsPage(n int) []models.Post {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			ID:        "post" + string(rune('a'+i)),
			AuthorUID: "uid1",
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return posts
}

func TestGetProfilePostsFullPageReturnsCursor(t *testing.T) {
	postRepo := &fakePostRepo{posts: profilePostsPage(repositories.ProfilePostsPageSize)}
	userRepo := &fakeUserRepo{uidByAddress: map[string]string{"derek_ink": "uid1"}}
	h := NewUserHandler(userRepo, postRepo)

	c, rec := newTestContext(t, http.MethodGet, "/users/derek_ink/posts", nil)
	c.SetParamNames("address")
	c.SetParamValues("derek_ink")

	require.NoError(t, h.GetProfilePosts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Posts      []models.Post `json:"posts"`
		NextCursor *time.Time    `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Posts, repositories.ProfilePostsPageSize)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, body.Posts[len(body.Posts)-1].CreatedAt, *body.NextCursor)
}

func TestGetProfilePostsShortPageEndsPagination(t *testing.T) {
	postRepo := &fakePostRepo{posts: profilePostsPage(3)}
	userRepo := &fakeUserRepo{uidByAddress: map[string]string{"derek_ink": "uid1"}}
	h := NewUserHandler(userRepo, postRepo)

	c, rec := newTestContext(t, http.MethodGet, "/users/derek_ink/posts", nil)
	c.SetParamNames("address")
	c.SetParamValues("derek_ink")

	require.NoError(t, h.GetProfilePosts(c))

	var body struct {
		NextCursor *time.Time `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.NextCursor)
}

func TestGetProfilePostsPassesBeforeCursor(t *testing.T) {
	postRepo := &fakePostRepo{}
	userRepo := &fakeUserRepo{uidByAddress: map[string]string{"derek_ink": "uid1"}}
	h := NewUserHandler(userRepo, postRepo)

	cursor := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	c, _ := newTestContext(t, http.MethodGet, "/users/derek_ink/posts?before="+cursor.Format(time.RFC3339Nano), nil)
	c.SetParamNames("address")
	c.SetParamValues("derek_ink")

	require.NoError(t, h.GetProfilePosts(c))
	assert.Equal(t, int64(repositories.ProfilePostsPageSize), postRepo.gotLimit)
	require.NotNil(t, postRepo.gotBefore)
	assert.True(t, cursor.Equal(*postRepo.gotBefore))
}

func TestGetProfilePostsRejectsBadCursor(t *testing.T) {
	userRepo := &fakeUserRepo{uidByAddress: map[string]string{"derek_ink": "uid1"}}
	h := NewUserHandler(userRepo, &fakePostRepo{})

	c, _ := newTestContext(t, http.MethodGet, "/users/derek_ink/posts?before=yesterday", nil)
	c.SetParamNames("address")
	c.SetParamValues("derek_ink")

	err := h.GetProfilePosts(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}
