package kv

import (
	"fmt"

	"github.com/dmitrijs2005/wellsta/internal/common"
)

type Scope string

const (
	ScopeSession Scope = "session"
	ScopeUser    Scope = "user"
	// ScopeDevice is shared by every user and survives logout.
	ScopeDevice Scope = "device"
)

type Kind string

const (
	KindToken           Kind = "token"
	KindUser            Kind = "user"
	KindProfileImage    Kind = "profile_image"
	KindCoverImage      Kind = "cover_image"
	KindUsageElapsed    Kind = "usage_elapsed"
	KindUsageLastActive Kind = "usage_last_active"
	KindLocalPosts      Kind = "local_posts"
	KindRemoteMirror    Kind = "remote_mirror"
	KindSavedPosts      Kind = "saved_posts"
	KindComments        Kind = "comments"
	KindMoodEntries     Kind = "mood_entries"
	KindJournalEntries  Kind = "journal_entries"
)

// Key addresses one stored value.
type Key struct {
	Scope  Scope
	UserID string
	Kind   Kind
	Item   string
}

// SessionKey addresses device-wide session state.
func SessionKey(kind Kind) Key {
	return Key{Scope: ScopeSession, Kind: kind}
}

// DeviceKey addresses state shared by all users of the device.
func DeviceKey(kind Kind) Key {
	return Key{Scope: ScopeDevice, Kind: kind}
}

// UserKey addresses state owned by userID; an empty id means the guest.
func UserKey(userID string, kind Kind) Key {
	if userID == "" {
		userID = common.GuestUserID
	}
	return Key{Scope: ScopeUser, UserID: userID, Kind: kind}
}

// ItemKey is a UserKey narrowed to one item, e.g. the comments of a post.
func ItemKey(userID string, kind Kind, item string) Key {
	k := UserKey(userID, kind)
	k.Item = item
	return k
}

func (k Key) String() string {
	s := fmt.Sprintf("%s/%s", k.Scope, k.Kind)
	if k.UserID != "" {
		s = fmt.Sprintf("%s/%s/%s", k.Scope, k.UserID, k.Kind)
	}
	if k.Item != "" {
		s += "/" + k.Item
	}
	return s
}
