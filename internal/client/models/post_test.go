package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_ToggleLike_TwiceRestoresState(t *testing.T) {
	cases := [][]string{nil, {"a"}, {"a", "u1", "b"}}

	for _, likers := range cases {
		p := &Post{ID: "p1", LikerIDs: append([]string(nil), likers...)}
		before := append([]string(nil), p.LikerIDs...)
		wasLiked := p.LikedBy("u1")
		count := p.LikesCount()

		first := p.ToggleLike("u1")
		assert.Equal(t, !wasLiked, first)
		second := p.ToggleLike("u1")
		assert.Equal(t, wasLiked, second)

		assert.Equal(t, wasLiked, p.LikedBy("u1"))
		assert.Equal(t, count, p.LikesCount())
		assert.ElementsMatch(t, before, p.LikerIDs)
	}
}

func TestFeedPost_TypeSwitch(t *testing.T) {
	posts := []FeedPost{
		&LocalPost{Post: Post{ID: LocalPostPrefix + "1"}},
		&RemotePost{Post: Post{ID: "64b7"}},
	}

	var local, remote int
	for _, p := range posts {
		switch p.(type) {
		case *LocalPost:
			local++
		case *RemotePost:
			remote++
		}
	}
	assert.Equal(t, 1, local)
	assert.Equal(t, 1, remote)

	posts[0].Data().Text = "changed"
	assert.Equal(t, "changed", posts[0].(*LocalPost).Text)
}

func TestPostDraft_IsEmpty(t *testing.T) {
	assert.True(t, PostDraft{}.IsEmpty())
	assert.True(t, PostDraft{Text: "   "}.IsEmpty())
	assert.False(t, PostDraft{Text: "hello"}.IsEmpty())
	assert.False(t, PostDraft{ImageRefs: []string{"a.png"}}.IsEmpty())
	assert.False(t, PostDraft{VoiceNoteRef: "v.webm"}.IsEmpty())
	assert.False(t, PostDraft{Location: &Location{Name: "Riga"}}.IsEmpty())
	assert.False(t, PostDraft{Emoji: "🙂"}.IsEmpty())
}

func TestPostPatch_Apply(t *testing.T) {
	text := "new"
	imgs := []string{"x.png"}
	p := &Post{Text: "old", Emoji: "🙂"}

	PostPatch{Text: &text, ImageRefs: &imgs}.Apply(p)

	require.Equal(t, "new", p.Text)
	require.Equal(t, "🙂", p.Emoji)
	require.Equal(t, []string{"x.png"}, p.ImageRefs)

	imgs[0] = "mutated"
	require.Equal(t, "x.png", p.ImageRefs[0])
}

func TestUserPatch_ApplyAndClone(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{ID: "u1", FirstName: "Ann", FollowingIDs: []string{"a"}}
	c := u.Clone()

	first := "Anna"
	following := []string{"a", "b"}
	UserPatch{FirstName: &first, FollowingIDs: &following}.Apply(u, now)

	assert.Equal(t, "Anna", u.FirstName)
	assert.True(t, u.IsFollowing("b"))
	assert.Equal(t, now, u.UpdatedAt)

	assert.Equal(t, "Ann", c.FirstName)
	assert.False(t, c.IsFollowing("b"))
	assert.Nil(t, (*User)(nil).Clone())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ann Lee", (&User{FirstName: "Ann", LastName: "Lee"}).DisplayName())
	assert.Equal(t, "ann", (&User{Username: "ann"}).DisplayName())
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "userA", EmailLocalPart("userA@example.com"))
	assert.Equal(t, "plain", EmailLocalPart("plain"))
}
