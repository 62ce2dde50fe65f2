package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/notify"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

// FriendService lists other users and follows or unfollows them.
type FriendService interface {
	Users(ctx context.Context) ([]models.User, error)
	Follow(ctx context.Context, targetID string) error
	Unfollow(ctx context.Context, targetID string) error
}

type friendService struct {
	client  client.Client
	session SessionService
	syncer  *Syncer
	notes   notify.Notifier
	log     logging.Logger
}

func NewFriendService(c client.Client, session SessionService, syncer *Syncer, notes notify.Notifier, log logging.Logger) FriendService {
	return &friendService{client: c, session: session, syncer: syncer, notes: notes, log: log}
}

// Users returns every user except the current one. A failed fetch yields
// an empty list and a notice.
func (s *friendService) Users(ctx context.Context) ([]models.User, error) {
	if s.session.Current() == nil {
		return nil, ErrNotLoggedIn
	}
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		s.log.Warn(ctx, "list users failed", "err", err)
		notify.Warn(ctx, s.notes, "Couldn't load people right now.")
		return []models.User{}, nil
	}
	me := s.session.CurrentID()
	return slices.DeleteFunc(users, func(u models.User) bool { return u.ID == me }), nil
}

func (s *friendService) setFollowing(ctx context.Context, targetID string, follow bool) error {
	me := s.session.Current()
	if me == nil {
		return ErrNotLoggedIn
	}

	following := slices.DeleteFunc(slices.Clone(me.FollowingIDs), func(id string) bool { return id == targetID })
	if follow {
		following = append(following, targetID)
	}
	if _, err := s.session.UpdateUser(ctx, models.UserPatch{FollowingIDs: &following}); err != nil {
		return err
	}

	if s.session.IsLocal() {
		return nil
	}
	op := "unfollow"
	call := s.client.Unfollow
	if follow {
		op = "follow"
		call = s.client.Follow
	}
	s.syncer.Go(ctx, op, func(ctx context.Context) error {
		return call(ctx, targetID, me.ID)
	}, "user_id", me.ID, "target_id", targetID)
	return nil
}

func (s *friendService) Follow(ctx context.Context, targetID string) error {
	return s.setFollowing(ctx, targetID, true)
}

func (s *friendService) Unfollow(ctx context.Context, targetID string) error {
	return s.setFollowing(ctx, targetID, false)
}

// Suggestions are users the current user does not follow yet.
func Suggestions(me *models.User, users []models.User) []models.User {
	var out []models.User
	for _, u := range users {
		if u.ID != me.ID && !me.IsFollowing(u.ID) {
			out = append(out, u)
		}
	}
	return out
}

func Following(me *models.User, users []models.User) []models.User {
	var out []models.User
	for _, u := range users {
		if me.IsFollowing(u.ID) {
			out = append(out, u)
		}
	}
	return out
}

// Followers are users listed in the current user's followers, or who
// follow the current user according to their own record.
func Followers(me *models.User, users []models.User) []models.User {
	var out []models.User
	for _, u := range users {
		if me.IsFollowedBy(u.ID) || u.IsFollowing(me.ID) {
			out = append(out, u)
		}
	}
	return out
}
