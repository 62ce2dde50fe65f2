package models

import (
	"slices"
	"strings"
	"time"
)

// LocalPostPrefix starts the id of every post created on the device.
const LocalPostPrefix = "local-post-"

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Post is the shared payload of local and remote posts.
type Post struct {
	ID           string    `json:"_id"`
	AuthorID     string    `json:"userId"`
	Text         string    `json:"desc"`
	ImageRefs    []string  `json:"images,omitempty"`
	VoiceNoteRef string    `json:"voiceNote,omitempty"`
	Location     *Location `json:"location,omitempty"`
	Emoji        string    `json:"emoji,omitempty"`
	LikerIDs     []string  `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p *Post) GetID() string   { return p.ID }
func (p *Post) SetID(id string) { p.ID = id }

func (p *Post) LikesCount() int {
	return len(p.LikerIDs)
}

func (p *Post) LikedBy(userID string) bool {
	return slices.Contains(p.LikerIDs, userID)
}

// ToggleLike flips userID's membership in LikerIDs and reports whether the
// user likes the post afterwards.
func (p *Post) ToggleLike(userID string) bool {
	if i := slices.Index(p.LikerIDs, userID); i >= 0 {
		p.LikerIDs = slices.Delete(p.LikerIDs, i, i+1)
		return false
	}
	p.LikerIDs = append(p.LikerIDs, userID)
	return true
}

// FeedPost is a post tagged with where its authoritative copy lives.
// It is implemented only by *LocalPost and *RemotePost; callers dispatch
// with a type switch.
type FeedPost interface {
	Data() *Post
	feedPost()
}

// LocalPost exists only on this device and is never sent to the remote API.
type LocalPost struct {
	Post
}

func (p *LocalPost) Data() *Post { return &p.Post }
func (*LocalPost) feedPost()     {}

// RemotePost is a mirror of a post owned by the remote API.
type RemotePost struct {
	Post
}

func (p *RemotePost) Data() *Post { return &p.Post }
func (*RemotePost) feedPost()     {}

// PostDraft is what a user submits when creating a post.
type PostDraft struct {
	Text         string
	ImageRefs    []string
	VoiceNoteRef string
	Location     *Location
	Emoji        string
}

// IsEmpty reports a draft with no content of any kind.
func (d PostDraft) IsEmpty() bool {
	return strings.TrimSpace(d.Text) == "" &&
		len(d.ImageRefs) == 0 &&
		d.VoiceNoteRef == "" &&
		d.Location == nil &&
		d.Emoji == ""
}

// PostPatch holds editable post fields. Nil fields are left unchanged.
type PostPatch struct {
	Text      *string   `json:"desc,omitempty"`
	Emoji     *string   `json:"emoji,omitempty"`
	ImageRefs *[]string `json:"images,omitempty"`
}

func (p PostPatch) Apply(post *Post) {
	if p.Text != nil {
		post.Text = *p.Text
	}
	if p.Emoji != nil {
		post.Emoji = *p.Emoji
	}
	if p.ImageRefs != nil {
		post.ImageRefs = slices.Clone(*p.ImageRefs)
	}
}
