package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/notify"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv/kvtest"
	"github.com/dmitrijs2005/wellsta/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for service tests. Every call is
// recorded as "Method arg1 arg2".
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	LoginRet    *models.Session
	LoginErr    error
	RegisterRet *models.Session
	RegisterErr error

	TimelineRet []models.Post
	TimelineErr error
	SavedRet    []models.Post
	SavedErr    error
	UsersRet    []models.User
	UsersErr    error
	GetUserRet  *models.User
	GetUserErr  error
	// Posts is what GetPost serves; other ids are not found.
	Posts         map[string]models.Post
	CreatePostErr error

	// MutateErr is returned by every remote mutation.
	MutateErr error

	LastRegistration models.Registration
	LastUserPatch    models.UserPatch
	LastPostPatch    models.PostPatch
}

func (f *fakeClient) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	f.record("Login %s", email)
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, reg models.Registration) (*models.Session, error) {
	f.record("Register %s", reg.Email)
	f.LastRegistration = reg
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) GetUser(ctx context.Context, userID string) (*models.User, error) {
	f.record("GetUser %s", userID)
	if f.GetUserErr != nil {
		return nil, f.GetUserErr
	}
	if f.GetUserRet != nil {
		return f.GetUserRet.Clone(), nil
	}
	return &models.User{ID: userID}, nil
}

func (f *fakeClient) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	f.record("UpdateUser %s", userID)
	f.mu.Lock()
	f.LastUserPatch = patch
	f.mu.Unlock()
	return &models.User{ID: userID}, f.MutateErr
}

func (f *fakeClient) Follow(ctx context.Context, targetID, currentUserID string) error {
	f.record("Follow %s %s", targetID, currentUserID)
	return f.MutateErr
}

func (f *fakeClient) Unfollow(ctx context.Context, targetID, currentUserID string) error {
	f.record("Unfollow %s %s", targetID, currentUserID)
	return f.MutateErr
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.User, error) {
	f.record("ListUsers")
	return f.UsersRet, f.UsersErr
}

func (f *fakeClient) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	f.record("CreatePost %s", post.AuthorID)
	if f.CreatePostErr != nil {
		return nil, f.CreatePostErr
	}
	post.ID = "srv-" + post.Text
	post.LikerIDs = nil
	return &post, nil
}

func (f *fakeClient) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	f.record("GetPost %s", postID)
	p, ok := f.Posts[postID]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &p, nil
}

func (f *fakeClient) UpdatePost(ctx context.Context, postID, userID string, patch models.PostPatch) (*models.Post, error) {
	f.record("UpdatePost %s %s", postID, userID)
	f.mu.Lock()
	f.LastPostPatch = patch
	f.mu.Unlock()
	return &models.Post{ID: postID}, f.MutateErr
}

func (f *fakeClient) DeletePost(ctx context.Context, postID string) error {
	f.record("DeletePost %s", postID)
	return f.MutateErr
}

func (f *fakeClient) LikePost(ctx context.Context, postID, userID string) error {
	f.record("LikePost %s %s", postID, userID)
	return f.MutateErr
}

func (f *fakeClient) Timeline(ctx context.Context, userID string) ([]models.Post, error) {
	f.record("Timeline %s", userID)
	return f.TimelineRet, f.TimelineErr
}

func (f *fakeClient) SavePost(ctx context.Context, postID, userID string) error {
	f.record("SavePost %s %s", postID, userID)
	return f.MutateErr
}

func (f *fakeClient) UnsavePost(ctx context.Context, postID, userID string) error {
	f.record("UnsavePost %s %s", postID, userID)
	return f.MutateErr
}

func (f *fakeClient) SavedPosts(ctx context.Context, userID string) ([]models.Post, error) {
	f.record("SavedPosts %s", userID)
	return f.SavedRet, f.SavedErr
}

func (f *fakeClient) UploadImage(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error) {
	f.record("UploadImage %s", name)
	return models.ImageRef("uploads/" + name), f.MutateErr
}

func (f *fakeClient) UploadVoiceNote(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error) {
	f.record("UploadVoiceNote %s", name)
	return models.ImageRef("uploads/" + name), f.MutateErr
}

var _ client.Client = (*fakeClient)(nil)

// env wires every service over one in-memory database.
type env struct {
	fc       *fakeClient
	repo     kv.Repository
	notes    *notify.Recorder
	syncer   *Syncer
	session  SessionService
	posts    PostService
	comments CommentService
	images   ProfileImageService
	friends  FriendService
	moods    MoodService
	journals JournalService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{fc: &fakeClient{}, repo: kvtest.New(t), notes: &notify.Recorder{}}
	log := logging.Nop()
	e.syncer = NewSyncer(log, e.notes)
	t.Cleanup(e.syncer.Flush)
	e.session = NewSessionService(e.fc, e.repo, log)
	e.posts = NewPostService(e.fc, e.repo, e.session, e.syncer, e.notes, log)
	e.comments = NewCommentService(e.repo, e.session, log)
	e.images = NewProfileImageService(e.fc, e.repo, e.session, e.syncer, log, "http://img.example/images/")
	e.friends = NewFriendService(e.fc, e.session, e.syncer, e.notes, log)
	e.moods = NewMoodService(e.repo, e.session, log, true)
	e.journals = NewJournalService(e.repo, e.session, log, true)
	return e
}

// loginRemote logs in as a user the API accepts.
func (e *env) loginRemote(t *testing.T, id string) {
	t.Helper()
	e.fc.LoginRet = &models.Session{
		User:  &models.User{ID: id, Email: id + "@example.com", FollowerIDs: []string{}, FollowingIDs: []string{}},
		Token: "tok-" + id,
	}
	e.fc.LoginErr = nil
	res := e.session.Login(context.Background(), id+"@example.com", "pw")
	require.NoError(t, res.Err)
	require.False(t, res.Offline)
}

// loginOffline logs in while the API is down.
func (e *env) loginOffline(t *testing.T, email string) *models.User {
	t.Helper()
	e.fc.LoginRet = nil
	e.fc.LoginErr = client.ErrUnavailable
	res := e.session.Login(context.Background(), email, "pw")
	require.NoError(t, res.Err)
	require.True(t, res.Offline)
	return res.User
}
