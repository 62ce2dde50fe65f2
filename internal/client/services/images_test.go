package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImages_ResolveFromUserRecord(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.fc.LoginRet = &models.Session{
		User:  &models.User{ID: "u1", ProfilePicture: "me.png", CoverPicture: "https://cdn.example/c.jpg"},
		Token: "t",
	}
	require.True(t, e.session.Login(ctx, "a@b.c", "pw").OK())

	profile, err := e.images.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://img.example/images/me.png", profile)

	cover, err := e.images.Cover(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/c.jpg", cover)
}

func TestImages_EmptyWhenNothingSet(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	profile, err := e.images.Profile(ctx)
	require.NoError(t, err)
	assert.Empty(t, profile)

	e.loginOffline(t, "a@b.c")
	cover, err := e.images.Cover(ctx)
	require.NoError(t, err)
	assert.Empty(t, cover)
}

func TestImages_SetLocalUser(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.loginOffline(t, "a@b.c")
	ref := models.ImageRef("data:image/png;base64,AAAA")

	require.NoError(t, e.images.Set(ctx, ImageProfile, ref))

	got, err := e.images.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(ref), got)
	assert.Equal(t, string(ref), e.session.Current().ProfilePicture)

	stored, err := e.repo.Get(ctx, kv.UserKey(u.ID, kv.KindProfileImage))
	require.NoError(t, err)
	assert.Equal(t, string(ref), string(stored))

	e.syncer.Flush()
	assert.Equal(t, []string{"Login a@b.c"}, e.fc.Calls())
}

func TestImages_SetRemoteUserSyncs(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginRemote(t, "u1")

	require.NoError(t, e.images.Set(ctx, ImageCover, "cover.jpg"))
	e.syncer.Flush()

	assert.Contains(t, e.fc.Calls(), "UpdateUser u1")
	require.NotNil(t, e.fc.LastUserPatch.CoverPicture)
	assert.Equal(t, "cover.jpg", *e.fc.LastUserPatch.CoverPicture)
	assert.Nil(t, e.fc.LastUserPatch.ProfilePicture)

	got, err := e.images.Cover(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://img.example/images/cover.jpg", got)
}

func TestImages_SetSyncFailureKeepsLocal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginRemote(t, "u1")
	e.fc.MutateErr = client.ErrUnavailable

	require.NoError(t, e.images.Set(ctx, ImageProfile, "p.png"))
	e.syncer.Flush()

	assert.Len(t, e.notes.Warnings(), 1)
	got, _ := e.images.Profile(ctx)
	assert.Equal(t, "http://img.example/images/p.png", got)
}

func TestImages_GuestSetIsStored(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.NoError(t, e.images.Set(ctx, ImageProfile, "g.png"))

	stored, err := e.repo.Get(ctx, kv.UserKey(common.GuestUserID, kv.KindProfileImage))
	require.NoError(t, err)
	assert.Equal(t, "g.png", string(stored))
}

func TestImages_UnknownKind(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	assert.ErrorIs(t, e.images.Set(ctx, ImageKind("banner"), "x"), ErrUnknownImageKey)
	_, err := e.images.Upload(ctx, ImageKind("banner"), "x.png", "image/png", []byte{1})
	assert.ErrorIs(t, err, ErrUnknownImageKey)
	assert.Empty(t, e.fc.Calls())
}

func TestImages_Upload(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginOffline(t, "a@b.c")

	ref, err := e.images.Upload(ctx, ImageProfile, "me.png", "image/png", []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, models.ImageRef("uploads/me.png"), ref)

	got, err := e.images.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://img.example/images/uploads/me.png", got)
}

func TestImages_UploadFailure(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.loginOffline(t, "a@b.c")
	e.fc.MutateErr = client.ErrUploadFailed

	_, err := e.images.Upload(ctx, ImageCover, "c.png", "image/png", []byte{1})

	assert.ErrorIs(t, err, client.ErrUploadFailed)
	got, _ := e.images.Cover(ctx)
	assert.Empty(t, got)
}
