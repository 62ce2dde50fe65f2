package client

import (
	"context"

	"github.com/dmitrijs2005/wellsta/internal/client/models"
)

// Client is the remote WellSta API as seen by the client services.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, reg models.Registration) (*models.Session, error)

	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error)
	Follow(ctx context.Context, targetID, currentUserID string) error
	Unfollow(ctx context.Context, targetID, currentUserID string) error
	ListUsers(ctx context.Context) ([]models.User, error)

	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	UpdatePost(ctx context.Context, postID, userID string, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
	LikePost(ctx context.Context, postID, userID string) error
	Timeline(ctx context.Context, userID string) ([]models.Post, error)

	SavePost(ctx context.Context, postID, userID string) error
	UnsavePost(ctx context.Context, postID, userID string) error
	SavedPosts(ctx context.Context, userID string) ([]models.Post, error)

	UploadImage(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error)
	UploadVoiceNote(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error)
}

// TokenSource supplies the bearer token for outbound calls. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }
