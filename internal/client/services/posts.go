package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/localstore"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/notify"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/common"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

// PostService manages the feed of the current user.
type PostService interface {
	Create(ctx context.Context, draft models.PostDraft) (*models.LocalPost, error)
	Publish(ctx context.Context, draft models.PostDraft) (models.FeedPost, error)
	Feed(ctx context.Context) ([]models.FeedPost, error)
	Get(ctx context.Context, postID string) (models.FeedPost, error)
	ToggleLike(ctx context.Context, postID string) (bool, error)
	ToggleSave(ctx context.Context, postID string) (bool, error)
	IsSaved(ctx context.Context, postID string) (bool, error)
	Update(ctx context.Context, postID string, patch models.PostPatch) (models.FeedPost, error)
	Delete(ctx context.Context, postID string) error
	Saved(ctx context.Context) ([]models.FeedPost, error)
}

type opKind int

const (
	opLike opKind = iota
	opSave
	opUnsave
	opUpdate
	opDelete
)

func (k opKind) String() string {
	return [...]string{"like", "save", "unsave", "update post", "delete post"}[k]
}

// postOp is one user mutation, applied locally first and then synced.
type postOp struct {
	kind   opKind
	postID string
	userID string
	patch  models.PostPatch
}

type postService struct {
	client  client.Client
	repo    kv.Repository
	session SessionService
	syncer  *Syncer
	notes   notify.Notifier
	log     logging.Logger
	now     func() time.Time
}

func NewPostService(c client.Client, repo kv.Repository, session SessionService, syncer *Syncer, notes notify.Notifier, log logging.Logger) PostService {
	return &postService{
		client:  c,
		repo:    repo,
		session: session,
		syncer:  syncer,
		notes:   notes,
		log:     log,
		now:     time.Now,
	}
}

func (s *postService) localPosts(userID string) *localstore.Collection[models.LocalPost, *models.LocalPost] {
	return localstore.NewCollection[models.LocalPost](s.repo, kv.UserKey(userID, kv.KindLocalPosts), models.LocalPostPrefix, s.log)
}

func (s *postService) mirror(userID string) *localstore.Collection[models.RemotePost, *models.RemotePost] {
	return localstore.NewCollection[models.RemotePost](s.repo, kv.UserKey(userID, kv.KindRemoteMirror), "", s.log)
}

func (s *postService) saved(userID string) *localstore.Set {
	return localstore.NewSet(s.repo, kv.UserKey(userID, kv.KindSavedPosts), s.log)
}

func (s *postService) comments(userID, postID string) *localstore.Collection[models.Comment, *models.Comment] {
	return localstore.NewCollection[models.Comment](s.repo, kv.ItemKey(userID, kv.KindComments, postID), "", s.log)
}

// remoteEnabled reports whether the current user can talk to the API.
func (s *postService) remoteEnabled() bool {
	return !s.session.IsLocal()
}

func (s *postService) Create(ctx context.Context, draft models.PostDraft) (*models.LocalPost, error) {
	if draft.IsEmpty() {
		return nil, ErrEmptyPost
	}
	uid := s.session.CurrentID()

	post := models.LocalPost{Post: models.Post{
		AuthorID:     uid,
		Text:         draft.Text,
		ImageRefs:    slices.Clone(draft.ImageRefs),
		VoiceNoteRef: draft.VoiceNoteRef,
		Location:     draft.Location,
		Emoji:        draft.Emoji,
		LikerIDs:     []string{},
		CreatedAt:    s.now().UTC(),
	}}

	stored, err := s.localPosts(uid).Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("store post: %w", err)
	}
	s.log.Debug(ctx, "local post created", "post_id", stored.ID)
	return &stored, nil
}

// Publish sends draft to the API and puts the created post at the head of
// the mirror. Local users get a local post. So does a remote user whose
// request fails, with a notice.
func (s *postService) Publish(ctx context.Context, draft models.PostDraft) (models.FeedPost, error) {
	if draft.IsEmpty() {
		return nil, ErrEmptyPost
	}
	if !s.remoteEnabled() {
		return s.createLocal(ctx, draft)
	}
	uid := s.session.CurrentID()

	created, err := s.client.CreatePost(ctx, models.Post{
		AuthorID:     uid,
		Text:         draft.Text,
		ImageRefs:    slices.Clone(draft.ImageRefs),
		VoiceNoteRef: draft.VoiceNoteRef,
		Location:     draft.Location,
		Emoji:        draft.Emoji,
		LikerIDs:     []string{},
	})
	if err != nil {
		s.log.Warn(ctx, "publish failed, keeping post on device", "user_id", uid, "err", err)
		notify.Warn(ctx, s.notes, "Couldn't publish your post. It was saved on this device instead.")
		return s.createLocal(ctx, draft)
	}

	rp := toRemote([]models.Post{*created})[0]
	if rp.AuthorID == "" {
		rp.AuthorID = uid
	}
	if rp.CreatedAt.IsZero() {
		rp.CreatedAt = s.now().UTC()
	}
	stored, err := s.mirror(uid).Create(ctx, rp)
	if err != nil {
		return nil, fmt.Errorf("store post: %w", err)
	}
	s.log.Debug(ctx, "post published", "post_id", stored.ID)
	return &stored, nil
}

func (s *postService) createLocal(ctx context.Context, draft models.PostDraft) (models.FeedPost, error) {
	lp, err := s.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	return lp, nil
}

func toRemote(posts []models.Post) []models.RemotePost {
	out := make([]models.RemotePost, 0, len(posts))
	for _, p := range posts {
		if p.LikerIDs == nil {
			p.LikerIDs = []string{}
		}
		out = append(out, models.RemotePost{Post: p})
	}
	return out
}

// Feed lists local posts first, then the remote timeline. A successful
// fetch refreshes the mirror; a failed one serves the last mirror.
func (s *postService) Feed(ctx context.Context) ([]models.FeedPost, error) {
	uid := s.session.CurrentID()

	local, err := s.localPosts(uid).List(ctx)
	if err != nil {
		return nil, err
	}

	var remote []models.RemotePost
	fetched := false
	if s.remoteEnabled() {
		posts, err := s.client.Timeline(ctx, uid)
		if err != nil {
			s.log.Warn(ctx, "timeline fetch failed, serving cached posts", "user_id", uid, "err", err)
			notify.Warn(ctx, s.notes, "Couldn't load new posts. Showing what's saved on this device.")
		} else {
			remote = toRemote(posts)
			fetched = true
			if err := s.mirror(uid).Replace(ctx, remote); err != nil {
				s.log.Error(ctx, "mirror update failed", "user_id", uid, "err", err)
			}
		}
	}
	if !fetched {
		if remote, err = s.mirror(uid).List(ctx); err != nil {
			return nil, err
		}
	}

	feed := make([]models.FeedPost, 0, len(local)+len(remote))
	for i := range local {
		feed = append(feed, &local[i])
	}
	for i := range remote {
		feed = append(feed, &remote[i])
	}
	return feed, nil
}

// lookup finds a post and tags it by the collection it was stored in.
func (s *postService) lookup(ctx context.Context, userID, postID string) (models.FeedPost, error) {
	lp, err := s.localPosts(userID).Get(ctx, postID)
	if err == nil {
		return &lp, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	rp, err := s.mirror(userID).Get(ctx, postID)
	if err == nil {
		return &rp, nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}
	return nil, err
}

// Get looks the post up on the device first. A remote user's post that is
// missing locally is fetched from the API and added to the mirror.
func (s *postService) Get(ctx context.Context, postID string) (models.FeedPost, error) {
	uid := s.session.CurrentID()
	post, err := s.lookup(ctx, uid, postID)
	if !errors.Is(err, ErrPostNotFound) || !s.remoteEnabled() {
		return post, err
	}

	p, rerr := s.client.GetPost(ctx, postID)
	if rerr != nil {
		if !errors.Is(rerr, client.ErrNotFound) {
			s.log.Warn(ctx, "post fetch failed", "post_id", postID, "err", rerr)
		}
		return nil, err
	}
	if p.ID == "" {
		p.ID = postID
	}
	stored, serr := s.mirror(uid).Append(ctx, toRemote([]models.Post{*p})[0])
	if serr != nil {
		return nil, serr
	}
	return &stored, nil
}

// applyLocal performs op on the stored copy of post and returns the result.
// It never talks to the network.
func (s *postService) applyLocal(ctx context.Context, post models.FeedPost, op postOp) (models.FeedPost, error) {
	mutate := func(p *models.Post) error {
		switch op.kind {
		case opLike:
			p.ToggleLike(op.userID)
		case opUpdate:
			op.patch.Apply(p)
		}
		return nil
	}

	if op.kind == opDelete {
		return post, s.deleteLocal(ctx, post, op)
	}

	switch p := post.(type) {
	case *models.LocalPost:
		updated, err := s.localPosts(op.userID).Update(ctx, p.ID, func(lp *models.LocalPost) error { return mutate(&lp.Post) })
		if err != nil {
			return nil, err
		}
		return &updated, nil
	case *models.RemotePost:
		updated, err := s.mirror(op.userID).Update(ctx, p.ID, func(rp *models.RemotePost) error { return mutate(&rp.Post) })
		if err != nil {
			return nil, err
		}
		return &updated, nil
	default:
		return nil, fmt.Errorf("unexpected post type %T", post)
	}
}

func (s *postService) deleteLocal(ctx context.Context, post models.FeedPost, op postOp) error {
	var err error
	switch post.(type) {
	case *models.LocalPost:
		_, err = s.localPosts(op.userID).Delete(ctx, op.postID)
	case *models.RemotePost:
		_, err = s.mirror(op.userID).Delete(ctx, op.postID)
	}
	if err != nil {
		return err
	}
	if err := s.saved(op.userID).Remove(ctx, op.postID); err != nil {
		return err
	}
	return s.comments(op.userID, op.postID).Clear(ctx)
}

// trySync sends op to the API. Callers only invoke it for remote posts.
func (s *postService) trySync(ctx context.Context, op postOp) error {
	switch op.kind {
	case opLike:
		return s.client.LikePost(ctx, op.postID, op.userID)
	case opSave:
		return s.client.SavePost(ctx, op.postID, op.userID)
	case opUnsave:
		return s.client.UnsavePost(ctx, op.postID, op.userID)
	case opUpdate:
		_, err := s.client.UpdatePost(ctx, op.postID, op.userID, op.patch)
		return err
	case opDelete:
		return s.client.DeletePost(ctx, op.postID)
	default:
		return fmt.Errorf("unknown op %d", op.kind)
	}
}

// dispatch queues the remote phase for remote posts only.
func (s *postService) dispatch(ctx context.Context, post models.FeedPost, op postOp) {
	if _, ok := post.(*models.RemotePost); !ok {
		return
	}
	s.syncer.Go(ctx, op.kind.String(), func(ctx context.Context) error {
		return s.trySync(ctx, op)
	}, "post_id", op.postID, "user_id", op.userID)
}

func (s *postService) ToggleLike(ctx context.Context, postID string) (bool, error) {
	uid := s.session.CurrentID()
	post, err := s.lookup(ctx, uid, postID)
	if err != nil {
		return false, err
	}

	op := postOp{kind: opLike, postID: postID, userID: uid}
	updated, err := s.applyLocal(ctx, post, op)
	if err != nil {
		return false, err
	}
	s.dispatch(ctx, post, op)
	return updated.Data().LikedBy(uid), nil
}

func (s *postService) ToggleSave(ctx context.Context, postID string) (bool, error) {
	uid := s.session.CurrentID()
	post, err := s.lookup(ctx, uid, postID)
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			return false, err
		}
		// a saved id whose post is gone can still be unsaved
		if ok, cerr := s.saved(uid).Contains(ctx, postID); cerr != nil || !ok {
			return false, err
		}
		return false, s.saved(uid).Remove(ctx, postID)
	}

	saved, err := s.saved(uid).Toggle(ctx, postID)
	if err != nil {
		return false, err
	}

	op := postOp{kind: opSave, postID: postID, userID: uid}
	if !saved {
		op.kind = opUnsave
	}
	s.dispatch(ctx, post, op)
	return saved, nil
}

func (s *postService) IsSaved(ctx context.Context, postID string) (bool, error) {
	return s.saved(s.session.CurrentID()).Contains(ctx, postID)
}

func (s *postService) Update(ctx context.Context, postID string, patch models.PostPatch) (models.FeedPost, error) {
	uid := s.session.CurrentID()
	post, err := s.lookup(ctx, uid, postID)
	if err != nil {
		return nil, err
	}

	op := postOp{kind: opUpdate, postID: postID, userID: uid, patch: patch}
	updated, err := s.applyLocal(ctx, post, op)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, post, op)
	return updated, nil
}

// Delete removes the post together with its saved mark and comments.
func (s *postService) Delete(ctx context.Context, postID string) error {
	uid := s.session.CurrentID()
	post, err := s.lookup(ctx, uid, postID)
	if err != nil {
		return err
	}

	op := postOp{kind: opDelete, postID: postID, userID: uid}
	if _, err := s.applyLocal(ctx, post, op); err != nil {
		return err
	}
	s.dispatch(ctx, post, op)
	return nil
}

// Saved resolves saved ids in the order they were saved. Ids missing
// locally are looked up in the API's saved list when reachable.
func (s *postService) Saved(ctx context.Context) ([]models.FeedPost, error) {
	uid := s.session.CurrentID()
	ids, err := s.saved(uid).Members(ctx)
	if err != nil {
		return nil, err
	}

	found := make(map[string]models.FeedPost, len(ids))
	missing := 0
	for _, id := range ids {
		p, err := s.lookup(ctx, uid, id)
		switch {
		case err == nil:
			found[id] = p
		case errors.Is(err, ErrPostNotFound):
			missing++
		default:
			return nil, err
		}
	}

	if missing > 0 && s.remoteEnabled() {
		remote, err := s.client.SavedPosts(ctx, uid)
		if err != nil {
			s.log.Warn(ctx, "saved posts fetch failed", "user_id", uid, "err", err)
			notify.Warn(ctx, s.notes, "Some saved posts couldn't be loaded.")
		}
		for _, rp := range toRemote(remote) {
			if _, ok := found[rp.ID]; !ok {
				found[rp.ID] = &rp
			}
		}
	}

	out := make([]models.FeedPost, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
