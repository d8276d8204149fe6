package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/derekink/postcard/backend/internal/models"
	"github.com/derekink/postcard/backend/internal/repositories"
	"github.com/derekink/postcard/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr.Code
}

// fakeNotificationRepo records enqueued fan-out params. It mirrors the
// store's self-suppression so handlers can enqueue unconditionally.
type fakeNotificationRepo struct {
	enqueued      []repositories.EnqueueParams
	enqueueErr    error
	notifications []models.Notification
	unread        int64
}

func (f *fakeNotificationRepo) Enqueue(_ context.Context, params repositories.EnqueueParams) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	if params.RecipientUID == params.ActorUID {
		return nil
	}
	f.enqueued = append(f.enqueued, params)
	return nil
}

func (f *fakeNotificationRepo) MarkRead(context.Context, string) error { return nil }
func (f *fakeNotificationRepo) MarkAllRead(context.Context, string) error { return nil }

func (f *fakeNotificationRepo) ListForUser(context.Context, string) ([]models.Notification, error) {
	return f.notifications, nil
}

func (f *fakeNotificationRepo) UnreadCount(context.Context, string) (int64, error) {
	return f.unread, nil
}

func (f *fakeNotificationRepo) WatchForUser(context.Context, string, func([]models.Notification)) error {
	return nil
}

type fakeLikeRepo struct {
	result *repositories.ToggleResult
	err    error
	liked  bool
}

func (f *fakeLikeRepo) Toggle(context.Context, string, string) (*repositories.ToggleResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeLikeRepo) HasUserLikedPost(context.Context, string, string) (bool, error) {
	return f.liked, nil
}

type fakeCommentRepo struct {
	created   *repositories.CreatedComment
	createErr error
	thread    *models.CommentThread
	deleteErr error
	hideErr   error
	removeErr error
}

func (f *fakeCommentRepo) CreateComment(context.Context, repositories.CreateCommentParams) (*repositories.CreatedComment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeCommentRepo) GetThread(context.Context, string) (*models.CommentThread, error) {
	return f.thread, nil
}

func (f *fakeCommentRepo) DeleteOwnComment(context.Context, string, string) error { return f.deleteErr }
func (f *fakeCommentRepo) HideForPostOwner(context.Context, string, string) error { return f.hideErr }

func (f *fakeCommentRepo) DeleteForPostOwner(context.Context, string, string) error {
	return f.removeErr
}

func (f *fakeCommentRepo) WatchThread(context.Context, string, func(*models.CommentThread)) error {
	return nil
}

type fakeUserRepo struct {
	profile          *models.UserProfile
	getErr           error
	uidByAddress     map[string]string
	available        bool
	updateErr        error
	changeAddressErr error
}

func (f *fakeUserRepo) CreateInitialProfile(context.Context, string, string, string, string) error {
	return nil
}

func (f *fakeUserRepo) GetProfile(context.Context, string) (*models.UserProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.profile, nil
}

func (f *fakeUserRepo) GetUIDByAddress(_ context.Context, handle string) (string, error) {
	uid, ok := f.uidByAddress[handle]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return uid, nil
}

func (f *fakeUserRepo) GetProfileByAddress(ctx context.Context, handle string) (*models.UserProfile, error) {
	if _, err := f.GetUIDByAddress(ctx, handle); err != nil {
		return nil, err
	}
	return f.profile, nil
}

func (f *fakeUserRepo) IsAddressAvailable(context.Context, string) (bool, error) {
	return f.available, nil
}

func (f *fakeUserRepo) UpdateProfileFields(context.Context, string, *models.UpdateProfileRequest) error {
	return f.updateErr
}

func (f *fakeUserRepo) ChangeAddress(context.Context, string, string) error {
	return f.changeAddressErr
}

func (f *fakeUserRepo) DeleteProfile(context.Context, string) error { return nil }

type fakePostRepo struct {
	post      *models.Post
	posts     []models.Post
	getErr    error
	deleteErr error
	gotLimit  int64
	gotBefore *time.Time
}

func (f *fakePostRepo) CreatePost(_ context.Context, authorUID, authorAddress, content string) (*models.Post, error) {
	now := time.Now()
	return &models.Post{
		ID:            "post1",
		AuthorUID:     authorUID,
		AuthorAddress: authorAddress,
		Content:       content,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (f *fakePostRepo) GetPostByID(context.Context, string) (*models.Post, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.post, nil
}

func (f *fakePostRepo) GetRecentPosts(context.Context) ([]models.Post, error) {
	return f.posts, nil
}

func (f *fakePostRepo) GetFeedPosts(context.Context, []string) ([]models.Post, error) {
	return f.posts, nil
}

func (f *fakePostRepo) GetProfilePosts(_ context.Context, _ string, limit int64, before *time.Time) ([]models.Post, error) {
	f.gotLimit = limit
	f.gotBefore = before
	return f.posts, nil
}

func (f *fakePostRepo) DeleteOwnPost(context.Context, string, string) error { return f.deleteErr }

func (f *fakePostRepo) WatchRecent(context.Context, func([]models.Post)) error { return nil }

func (f *fakePostRepo) WatchPost(context.Context, string, func(*models.Post)) error { return nil }

type fakeFriendshipRepo struct {
	areFriends    bool
	pending       bool
	request       *models.FriendRequest
	getRequestErr error
	acceptErr     error
	accepted      bool
	friendIDs     []string
	incoming      []models.FriendRequest
	removedEdge   string
}

func (f *fakeFriendshipRepo) SendRequest(_ context.Context, fromUID, toUID string) (*models.FriendRequest, error) {
	if fromUID == toUID {
		return nil, repositories.ErrSelfFriend
	}
	return &models.FriendRequest{
		ID:        "request1",
		FromUID:   fromUID,
		ToUID:     toUID,
		Status:    models.FriendRequestPending,
		CreatedAt: time.Now(),
	}, nil
}

func (f *fakeFriendshipRepo) GetRequestByID(context.Context, string) (*models.FriendRequest, error) {
	if f.getRequestErr != nil {
		return nil, f.getRequestErr
	}
	return f.request, nil
}

func (f *fakeFriendshipRepo) AcceptRequest(context.Context, string, string, string) error {
	if f.acceptErr != nil {
		return f.acceptErr
	}
	f.accepted = true
	return nil
}

func (f *fakeFriendshipRepo) RemoveFriend(_ context.Context, uidA, uidB string) error {
	f.removedEdge = models.FriendshipID(uidA, uidB)
	return nil
}

func (f *fakeFriendshipRepo) AreFriends(context.Context, string, string) (bool, error) {
	return f.areFriends, nil
}

func (f *fakeFriendshipRepo) GetFriendIDs(context.Context, string) ([]string, error) {
	return f.friendIDs, nil
}

func (f *fakeFriendshipRepo) HasPendingRequestBetween(context.Context, string, string) (bool, error) {
	return f.pending, nil
}

func (f *fakeFriendshipRepo) GetIncomingRequests(context.Context, string) ([]models.FriendRequest, error) {
	return f.incoming, nil
}

func (f *fakeFriendshipRepo) WatchIncomingRequests(context.Context, string, func([]models.FriendRequest)) error {
	return nil
}

func (f *fakeFriendshipRepo) WatchFriendIDs(context.Context, string, func([]string)) error {
	return nil
}
