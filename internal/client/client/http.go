package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/media"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/common"
)

// DefaultRequestTimeout bounds every call so a hung request cannot hold the
// activity flag on.
const DefaultRequestTimeout = 10 * time.Second

const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	tokens   TokenSource
	activity *Activity
	media    media.Store
}

type Option func(*HTTPClient)

func WithHTTPClient(c *http.Client) Option { return func(h *HTTPClient) { h.http = c } }

func WithTimeout(d time.Duration) Option { return func(h *HTTPClient) { h.timeout = d } }

func WithTokenSource(ts TokenSource) Option { return func(h *HTTPClient) { h.tokens = ts } }

func WithActivity(a *Activity) Option { return func(h *HTTPClient) { h.activity = a } }

func WithMediaStore(s media.Store) Option { return func(h *HTTPClient) { h.media = s } }

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: DefaultRequestTimeout,
		media:   media.NewInlineStore(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetTokenSource replaces the token source after construction, for callers
// whose token owner itself depends on the client.
func (c *HTTPClient) SetTokenSource(ts TokenSource) { c.tokens = ts }

func (c *HTTPClient) Activity() *Activity { return c.activity }

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+tok)
		}
	}

	done := c.activity.Begin()
	defer done()

	resp, err := c.http.Do(req)
	if err != nil {
		return mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(msg)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"message": "..."} bodies and falls back to the raw text.
func errorMessage(b []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &m) == nil && m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(string(b))
}

func seg(s string) string { return url.PathEscape(s) }

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (a authResponse) session() (*models.Session, error) {
	if a.User == nil || a.Token == "" {
		return nil, fmt.Errorf("%w: auth response without user or token", ErrBadRequest)
	}
	return &models.Session{User: a.User, Token: a.Token}, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return resp.session()
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	return resp.session()
}

func (c *HTTPClient) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/user/"+seg(userID), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "/user/"+seg(userID), patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Follow(ctx context.Context, targetID, currentUserID string) error {
	return c.do(ctx, http.MethodPut, "/user/"+seg(targetID)+"/follow", map[string]string{"_id": currentUserID}, nil)
}

func (c *HTTPClient) Unfollow(ctx context.Context, targetID, currentUserID string) error {
	return c.do(ctx, http.MethodPut, "/user/"+seg(targetID)+"/unfollow", map[string]string{"_id": currentUserID}, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodPost, "/post", post, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodGet, "/post/"+seg(postID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type postUpdate struct {
	UserID string `json:"userId"`
	models.PostPatch
}

func (c *HTTPClient) UpdatePost(ctx context.Context, postID, userID string, patch models.PostPatch) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodPut, "/post/"+seg(postID), postUpdate{UserID: userID, PostPatch: patch}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/post/"+seg(postID), nil, nil)
}

func (c *HTTPClient) LikePost(ctx context.Context, postID, userID string) error {
	return c.do(ctx, http.MethodPut, "/post/"+seg(postID)+"/like_dislike", map[string]string{"userId": userID}, nil)
}

func (c *HTTPClient) Timeline(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/post/"+seg(userID)+"/timeline", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) SavePost(ctx context.Context, postID, userID string) error {
	return c.do(ctx, http.MethodPut, "/user/"+seg(userID)+"/save-post", map[string]string{"postId": postID}, nil)
}

func (c *HTTPClient) UnsavePost(ctx context.Context, postID, userID string) error {
	return c.do(ctx, http.MethodPut, "/user/"+seg(userID)+"/unsave-post", map[string]string{"postId": postID}, nil)
}

func (c *HTTPClient) SavedPosts(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/user/"+seg(userID)+"/saved-posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) upload(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	done := c.activity.Begin()
	defer done()

	ref, err := c.media.Put(ctx, name, contentType, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return ref, nil
}

func (c *HTTPClient) UploadImage(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error) {
	return c.upload(ctx, name, contentType, data)
}

func (c *HTTPClient) UploadVoiceNote(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error) {
	if contentType == "" {
		contentType = "audio/webm"
	}
	return c.upload(ctx, name, contentType, data)
}
