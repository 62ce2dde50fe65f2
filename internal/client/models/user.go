package models

import (
	"slices"
	"strings"
	"time"
)

// User is an identity known to the client, either returned by the remote
// API or synthesized locally when the API is unreachable.
type User struct {
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"firstname"`
	LastName       string    `json:"lastname"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CoverPicture   string    `json:"coverPicture,omitempty"`
	FollowerIDs    []string  `json:"followers"`
	FollowingIDs   []string  `json:"following"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) IsFollowing(id string) bool {
	return slices.Contains(u.FollowingIDs, id)
}

func (u *User) IsFollowedBy(id string) bool {
	return slices.Contains(u.FollowerIDs, id)
}

// Clone returns a deep copy so callers cannot mutate cached session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.FollowerIDs = slices.Clone(u.FollowerIDs)
	c.FollowingIDs = slices.Clone(u.FollowingIDs)
	return &c
}

// UserPatch lists the user fields a client may change. Nil fields are left as is.
type UserPatch struct {
	Username       *string   `json:"username,omitempty"`
	FirstName      *string   `json:"firstname,omitempty"`
	LastName       *string   `json:"lastname,omitempty"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	CoverPicture   *string   `json:"coverPicture,omitempty"`
	FollowingIDs   *[]string `json:"following,omitempty"`
}

// Apply copies the set fields of p onto u and stamps UpdatedAt.
func (p UserPatch) Apply(u *User, now time.Time) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.CoverPicture != nil {
		u.CoverPicture = *p.CoverPicture
	}
	if p.FollowingIDs != nil {
		u.FollowingIDs = slices.Clone(*p.FollowingIDs)
	}
	u.UpdatedAt = now
}

// Registration is the payload of account creation.
type Registration struct {
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// EmailLocalPart returns the part of an address before '@'.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

// Session is the persisted "who is acting" state. Token is non-empty
// exactly when User is non-nil.
type Session struct {
	User  *User
	Token string
}

func (s Session) LoggedIn() bool {
	return s.User != nil && s.Token != ""
}
