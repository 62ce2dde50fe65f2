package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/common"
	"github.com/dmitrijs2005/wellsta/internal/cryptox"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

// LocalTokenPrefix starts the token of a fallback identity.
const LocalTokenPrefix = "local-token-"

// LoginResult reports the outcome of Login. Login itself never returns an
// error; a failure is carried in Err.
type LoginResult struct {
	User *models.User
	// Offline is set when the remote API was unreachable or refused the
	// credentials and a local identity was synthesized instead.
	Offline bool
	// RemoteErr is the error that triggered the offline fallback.
	RemoteErr error
	Err       error
}

func (r LoginResult) OK() bool { return r.Err == nil && r.User != nil }

// UserChangeFunc is called after the current user changes; u is nil after
// logout.
type UserChangeFunc func(ctx context.Context, u *models.User)

// SessionService owns the "who is acting" state.
//
// Contract:
//   - Login: remote first, local fallback identity on any remote failure.
//   - Register: remote only; failures propagate.
//   - Logout: clears the session keys, keeps per-user keys.
//   - UpdateUser: applies a patch to the current user locally.
//   - Restore: rehydrates the persisted session at startup.
//   - Refresh: reloads the current remote user from the API.
type SessionService interface {
	Login(ctx context.Context, email, password string) LoginResult
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error)
	Restore(ctx context.Context) error
	Refresh(ctx context.Context) (*models.User, error)

	Current() *models.User
	CurrentID() string
	Token() string
	IsLocal() bool

	OnUserChange(fn UserChangeFunc)
	EvictUser(ctx context.Context, userID string) error
}

type sessionService struct {
	client client.Client
	repo   kv.Repository
	log    logging.Logger
	now    func() time.Time

	mu        sync.RWMutex
	session   models.Session
	listeners []UserChangeFunc
}

func NewSessionService(c client.Client, repo kv.Repository, log logging.Logger) SessionService {
	return &sessionService{client: c, repo: repo, log: log, now: time.Now}
}

// fallbackUser builds the identity used when the remote API cannot log the
// user in. The id is derived from the email so repeated offline logins
// resume the same per-user state.
func (s *sessionService) fallbackUser(email string) *models.User {
	local := models.EmailLocalPart(email)
	now := s.now().UTC()
	return &models.User{
		ID:           cryptox.LocalUserID(email),
		Username:     strings.ToLower(local),
		FirstName:    local,
		LastName:     "User",
		Email:        strings.TrimSpace(email),
		FollowerIDs:  []string{},
		FollowingIDs: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *sessionService) Login(ctx context.Context, email, password string) LoginResult {
	email = strings.TrimSpace(email)
	if email == "" {
		return LoginResult{Err: ErrMissingEmail}
	}

	var res LoginResult
	sess, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "remote login failed, using local identity", "err", err)
		u := s.fallbackUser(email)
		sess = &models.Session{User: u, Token: LocalTokenPrefix + u.ID}
		res.Offline = true
		res.RemoteErr = err
	}

	// Cached images and usage time under this id may belong to a previous
	// account that was given the same id.
	if err := s.repo.EvictUser(ctx, sess.User.ID,
		kv.KindProfileImage, kv.KindCoverImage, kv.KindUsageElapsed, kv.KindUsageLastActive); err != nil {
		res.Err = fmt.Errorf("clear cached user state: %w", err)
		return res
	}

	if err := s.activate(ctx, *sess); err != nil {
		res.Err = err
		return res
	}
	res.User = sess.User.Clone()
	s.log.Info(ctx, "logged in", "user_id", sess.User.ID, "offline", res.Offline)
	return res
}

func (s *sessionService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Email == "" {
		return nil, ErrMissingEmail
	}
	if reg.Username == "" {
		reg.Username = models.EmailLocalPart(reg.Email)
	}

	sess, err := s.client.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := s.activate(ctx, *sess); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "registered", "user_id", sess.User.ID)
	return sess.User.Clone(), nil
}

func (s *sessionService) persist(ctx context.Context, sess models.Session) error {
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo.Set(ctx, kv.SessionKey(kv.KindUser), raw); err != nil {
		return err
	}
	return s.repo.Set(ctx, kv.SessionKey(kv.KindToken), []byte(sess.Token))
}

func (s *sessionService) activate(ctx context.Context, sess models.Session) error {
	if err := s.persist(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.set(ctx, models.Session{User: sess.User.Clone(), Token: sess.Token})
	return nil
}

// set swaps the in-memory session and notifies listeners.
func (s *sessionService) set(ctx context.Context, sess models.Session) {
	s.mu.Lock()
	s.session = sess
	listeners := append([]UserChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	u := sess.User.Clone()
	for _, fn := range listeners {
		fn(ctx, u)
	}
}

func (s *sessionService) Logout(ctx context.Context) error {
	id := s.CurrentID()
	err := s.repo.ClearSession(ctx)
	s.set(ctx, models.Session{})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info(ctx, "logged out", "user_id", id)
	return nil
}

func (s *sessionService) UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	if !s.session.LoggedIn() {
		s.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	u := s.session.User.Clone()
	patch.Apply(u, s.now().UTC())
	sess := models.Session{User: u, Token: s.session.Token}
	s.session = sess
	s.mu.Unlock()

	if err := s.persist(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return u.Clone(), nil
}

// Restore loads the persisted session. A half-present session, or one
// whose JWT has expired, is cleared so that a token exists exactly when a
// user does.
func (s *sessionService) Restore(ctx context.Context) error {
	rawToken, err := s.repo.Get(ctx, kv.SessionKey(kv.KindToken))
	if err != nil {
		return err
	}
	rawUser, err := s.repo.Get(ctx, kv.SessionKey(kv.KindUser))
	if err != nil {
		return err
	}

	token := strings.TrimSpace(string(rawToken))
	var u *models.User
	if len(rawUser) > 0 {
		if err := json.Unmarshal(rawUser, &u); err != nil {
			s.log.Warn(ctx, "discarding corrupt stored user", "err", err)
			u = nil
		}
	}

	valid := token != "" && u != nil && u.ID != ""
	if valid {
		if exp, ok := client.TokenExpiry(token); ok && !exp.After(s.now()) {
			s.log.Info(ctx, "stored session expired", "user_id", u.ID, "exp", exp)
			valid = false
		}
	}

	if !valid {
		if rawToken != nil || rawUser != nil {
			if err := s.repo.ClearSession(ctx); err != nil {
				return err
			}
		}
		s.set(ctx, models.Session{})
		return nil
	}

	s.set(ctx, models.Session{User: u, Token: token})
	s.log.Debug(ctx, "session restored", "user_id", u.ID)
	return nil
}

// Refresh fetches the current user from the API and stores it. A local
// user is returned as is. When the fetch fails the cached user is
// returned together with the error.
func (s *sessionService) Refresh(ctx context.Context) (*models.User, error) {
	cached := s.Current()
	if cached == nil {
		return nil, ErrNotLoggedIn
	}
	if s.IsLocal() {
		return cached, nil
	}

	fresh, err := s.client.GetUser(ctx, cached.ID)
	if err != nil {
		s.log.Warn(ctx, "user refresh failed", "user_id", cached.ID, "err", err)
		return cached, fmt.Errorf("refresh user: %w", err)
	}
	if fresh.ID == "" {
		fresh.ID = cached.ID
	}

	s.mu.Lock()
	if s.session.User == nil || s.session.User.ID != cached.ID || fresh.ID != cached.ID {
		s.mu.Unlock()
		return cached, nil
	}
	sess := models.Session{User: fresh.Clone(), Token: s.session.Token}
	s.session = sess
	s.mu.Unlock()

	if err := s.persist(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return fresh.Clone(), nil
}

func (s *sessionService) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User.Clone()
}

// CurrentID returns the current user id, or common.GuestUserID.
func (s *sessionService) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return common.GuestUserID
	}
	return s.session.User.ID
}

func (s *sessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// IsLocal reports a fallback identity, which the remote API does not know.
func (s *sessionService) IsLocal() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User == nil || cryptox.IsLocalUserID(s.session.User.ID)
}

func (s *sessionService) OnUserChange(fn UserChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// EvictUser deletes everything stored for userID. Nothing calls it
// implicitly.
func (s *sessionService) EvictUser(ctx context.Context, userID string) error {
	return s.repo.EvictUser(ctx, userID)
}
