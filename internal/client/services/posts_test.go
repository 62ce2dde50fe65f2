package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTimeline logs in remotely and loads a feed containing the given
// remote post ids.
func seedTimeline(t *testing.T, e *env, user string, ids ...string) {
	t.Helper()
	e.loginRemote(t, user)
	for _, id := range ids {
		e.fc.TimelineRet = append(e.fc.TimelineRet, models.Post{ID: id, AuthorID: "author", Text: "remote " + id})
	}
	_, err := e.posts.Feed(context.Background())
	require.NoError(t, err)
}

func feedIDs(t *testing.T, feed []models.FeedPost) []string {
	t.Helper()
	ids := make([]string, 0, len(feed))
	for _, p := range feed {
		ids = append(ids, p.Data().ID)
	}
	return ids
}

func TestPosts_CreateLikeSaveDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginOffline(t, "a@b.c")

	p, err := e.posts.Create(ctx, models.PostDraft{Text: "hello", ImageRefs: []string{"data:image/png;base64,AA=="}})
	require.NoError(t, err)
	assert.Contains(t, p.ID, models.LocalPostPrefix)
	assert.Equal(t, []string{}, p.LikerIDs)
	assert.Equal(t, e.session.CurrentID(), p.AuthorID)

	feed, err := e.posts.Feed(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	head, ok := feed[0].(*models.LocalPost)
	require.True(t, ok)
	assert.Equal(t, p.ID, head.ID)
	assert.Equal(t, "hello", head.Text)
	assert.Len(t, head.ImageRefs, 1)
	assert.Empty(t, head.LikerIDs)

	saved, err := e.posts.ToggleSave(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	ok, err = e.posts.IsSaved(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = e.comments.Add(ctx, p.ID, "nice")
	require.NoError(t, err)

	require.NoError(t, e.posts.Delete(ctx, p.ID))

	feed, err = e.posts.Feed(ctx)
	require.NoError(t, err)
	assert.NotContains(t, feedIDs(t, feed), p.ID)
	ok, err = e.posts.IsSaved(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	comments, err := e.comments.List(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = e.posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPosts_CreateRejectsEmptyDraft(t *testing.T) {
	e := newEnv(t)

	_, err := e.posts.Create(context.Background(), models.PostDraft{Text: "   "})

	assert.ErrorIs(t, err, ErrEmptyPost)
}

func TestPosts_CreatePrepends(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginOffline(t, "a@b.c")

	first, err := e.posts.Create(ctx, models.PostDraft{Text: "one"})
	require.NoError(t, err)
	second, err := e.posts.Create(ctx, models.PostDraft{Emoji: "🙂"})
	require.NoError(t, err)

	feed, err := e.posts.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, feedIDs(t, feed))
}

func TestPosts_ToggleLikeTwiceRestores(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1", "r1")
	local, err := e.posts.Create(ctx, models.PostDraft{Text: "mine"})
	require.NoError(t, err)

	for _, id := range []string{local.ID, "r1"} {
		before, err := e.posts.Get(ctx, id)
		require.NoError(t, err)

		liked, err := e.posts.ToggleLike(ctx, id)
		require.NoError(t, err)
		assert.True(t, liked)
		mid, _ := e.posts.Get(ctx, id)
		assert.Equal(t, []string{"u1"}, mid.Data().LikerIDs)

		liked, err = e.posts.ToggleLike(ctx, id)
		require.NoError(t, err)
		assert.False(t, liked)

		after, err := e.posts.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before.Data().LikerIDs, after.Data().LikerIDs, id)
	}
}

func TestPosts_LocalPostsNeverSync(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1")
	before := len(e.fc.Calls())

	p, err := e.posts.Create(ctx, models.PostDraft{Text: "offline only"})
	require.NoError(t, err)
	_, err = e.posts.ToggleLike(ctx, p.ID)
	require.NoError(t, err)
	_, err = e.posts.ToggleSave(ctx, p.ID)
	require.NoError(t, err)
	text := "edited"
	_, err = e.posts.Update(ctx, p.ID, models.PostPatch{Text: &text})
	require.NoError(t, err)
	require.NoError(t, e.posts.Delete(ctx, p.ID))

	e.syncer.Flush()
	assert.Len(t, e.fc.Calls(), before)
}

func TestPosts_RemotePostsSyncEvenWhenUnreachable(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1", "r1", "r2")
	e.fc.MutateErr = client.ErrUnavailable

	liked, err := e.posts.ToggleLike(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, liked)
	saved, err := e.posts.ToggleSave(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, saved)
	text := "new text"
	updated, err := e.posts.Update(ctx, "r1", models.PostPatch{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "new text", updated.Data().Text)
	require.NoError(t, e.posts.Delete(ctx, "r2"))

	e.syncer.Flush()

	calls := e.fc.Calls()
	assert.Subset(t, calls, []string{
		"LikePost r1 u1",
		"SavePost r1 u1",
		"UpdatePost r1 u1",
		"DeletePost r2",
	})
	assert.Equal(t, "new text", *e.fc.LastPostPatch.Text)
	assert.Len(t, e.notes.Warnings(), 4)

	// local state survived the failed syncs
	p, err := e.posts.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, p.Data().LikerIDs)
	assert.Equal(t, "new text", p.Data().Text)
	_, err = e.posts.Get(ctx, "r2")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPosts_SyncRunsInOrder(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1", "r1")
	start := len(e.fc.Calls())

	for range 3 {
		_, err := e.posts.ToggleSave(ctx, "r1")
		require.NoError(t, err)
	}
	e.syncer.Flush()

	assert.Equal(t, []string{"SavePost r1 u1", "UnsavePost r1 u1", "SavePost r1 u1"}, e.fc.Calls()[start:])
	assert.Empty(t, e.notes.Warnings())
}

func TestPosts_FeedFallsBackToMirror(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1", "r1", "r2")

	e.fc.TimelineErr = client.ErrUnavailable
	feed, err := e.posts.Feed(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, feedIDs(t, feed))
	for _, p := range feed {
		_, ok := p.(*models.RemotePost)
		assert.True(t, ok)
	}
	require.Len(t, e.notes.Warnings(), 1)
}

func TestPosts_FeedRefreshReplacesMirror(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1", "r1", "r2")

	e.fc.TimelineRet = []models.Post{{ID: "r3"}}
	feed, err := e.posts.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, feedIDs(t, feed))
	assert.Equal(t, []string{}, feed[0].Data().LikerIDs)

	_, err = e.posts.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPosts_LocalUserSkipsTimeline(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginOffline(t, "a@b.c")

	feed, err := e.posts.Feed(ctx)

	require.NoError(t, err)
	assert.Empty(t, feed)
	assert.Equal(t, []string{"Login a@b.c"}, e.fc.Calls())
}

func TestPosts_UnknownPost(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginOffline(t, "a@b.c")

	_, err := e.posts.ToggleLike(ctx, "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = e.posts.Update(ctx, "nope", models.PostPatch{})
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, e.posts.Delete(ctx, "nope"), ErrPostNotFound)
	_, err = e.posts.ToggleSave(ctx, "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPosts_UnsaveOrphan(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1", "r1")
	_, err := e.posts.ToggleSave(ctx, "r1")
	require.NoError(t, err)

	// r1 drops out of the timeline
	e.fc.TimelineRet = nil
	_, err = e.posts.Feed(ctx)
	require.NoError(t, err)

	saved, err := e.posts.ToggleSave(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, saved)
	ok, _ := e.posts.IsSaved(ctx, "r1")
	assert.False(t, ok)
}

func TestPosts_SavedKeepsOrderAndFetchesMissing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1", "r1", "r2")
	local, err := e.posts.Create(ctx, models.PostDraft{Text: "mine"})
	require.NoError(t, err)

	for _, id := range []string{"r2", local.ID, "r1"} {
		_, err := e.posts.ToggleSave(ctx, id)
		require.NoError(t, err)
	}
	e.syncer.Flush()

	// r1 vanishes from the mirror but the API still has it saved
	e.fc.TimelineRet = []models.Post{{ID: "r2"}}
	_, err = e.posts.Feed(ctx)
	require.NoError(t, err)
	e.fc.SavedRet = []models.Post{{ID: "r1", Text: "from saved"}}

	saved, err := e.posts.Saved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", local.ID, "r1"}, feedIDs(t, saved))
	assert.Equal(t, "from saved", saved[2].Data().Text)
	assert.Contains(t, e.fc.Calls(), "SavedPosts u1")
}

func TestPosts_SavedFetchFailureWarns(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seedTimeline(t, e, "u1", "r1")
	_, err := e.posts.ToggleSave(ctx, "r1")
	require.NoError(t, err)
	e.syncer.Flush()

	e.fc.TimelineRet = nil
	_, err = e.posts.Feed(ctx)
	require.NoError(t, err)
	e.fc.SavedErr = client.ErrUnavailable

	saved, err := e.posts.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.Len(t, e.notes.Warnings(), 1)
}

func TestPosts_UsersDoNotShareState(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	e.loginOffline(t, "a@b.c")
	p, err := e.posts.Create(ctx, models.PostDraft{Text: "from a"})
	require.NoError(t, err)
	_, err = e.posts.ToggleSave(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, e.session.Logout(ctx))
	e.loginOffline(t, "b@b.c")

	feed, err := e.posts.Feed(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)
	saved, err := e.posts.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)

	require.NoError(t, e.session.Logout(ctx))
	e.loginOffline(t, "a@b.c")
	feed, err = e.posts.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, feedIDs(t, feed))
}

func TestPosts_PublishRemote(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginRemote(t, "u1")

	_, err := e.posts.Publish(ctx, models.PostDraft{Text: "  "})
	assert.ErrorIs(t, err, ErrEmptyPost)

	p, err := e.posts.Publish(ctx, models.PostDraft{Text: "hi", VoiceNoteRef: "uploads/note.webm", Emoji: "🙂"})
	require.NoError(t, err)
	rp, ok := p.(*models.RemotePost)
	require.True(t, ok)
	assert.Equal(t, "srv-hi", rp.ID)
	assert.Equal(t, "u1", rp.AuthorID)
	assert.Equal(t, "uploads/note.webm", rp.VoiceNoteRef)
	assert.Equal(t, []string{}, rp.LikerIDs)
	assert.False(t, rp.CreatedAt.IsZero())
	assert.Contains(t, e.fc.Calls(), "CreatePost u1")

	e.fc.TimelineErr = client.ErrUnavailable
	feed, err := e.posts.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"srv-hi"}, feedIDs(t, feed))

	liked, err := e.posts.ToggleLike(ctx, "srv-hi")
	require.NoError(t, err)
	assert.True(t, liked)
	e.syncer.Flush()
	assert.Contains(t, e.fc.Calls(), "LikePost srv-hi u1")
}

func TestPosts_PublishFailureKeepsPostLocal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginRemote(t, "u1")
	e.fc.CreatePostErr = client.ErrUnavailable

	p, err := e.posts.Publish(ctx, models.PostDraft{Text: "offline draft"})
	require.NoError(t, err)
	lp, ok := p.(*models.LocalPost)
	require.True(t, ok)
	assert.Contains(t, lp.ID, models.LocalPostPrefix)
	require.Len(t, e.notes.Warnings(), 1)

	got, err := e.posts.Get(ctx, lp.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline draft", got.Data().Text)
}

func TestPosts_PublishLocalUserSkipsAPI(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginOffline(t, "a@b.c")

	p, err := e.posts.Publish(ctx, models.PostDraft{Text: "just me"})
	require.NoError(t, err)
	_, ok := p.(*models.LocalPost)
	assert.True(t, ok)
	assert.Equal(t, []string{"Login a@b.c"}, e.fc.Calls())
}

func TestPosts_GetFetchesMissingRemotePost(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginRemote(t, "u1")
	e.fc.Posts = map[string]models.Post{
		"r7": {ID: "r7", AuthorID: "u2", Text: "shared link"},
	}

	p, err := e.posts.Get(ctx, "r7")
	require.NoError(t, err)
	rp, ok := p.(*models.RemotePost)
	require.True(t, ok)
	assert.Equal(t, "shared link", rp.Text)
	assert.Equal(t, []string{}, rp.LikerIDs)

	// now served from the mirror
	_, err = e.posts.Get(ctx, "r7")
	require.NoError(t, err)
	fetches := 0
	for _, c := range e.fc.Calls() {
		if c == "GetPost r7" {
			fetches++
		}
	}
	assert.Equal(t, 1, fetches)

	_, err = e.posts.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
