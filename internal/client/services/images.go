package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

type ImageKind string

const (
	ImageProfile ImageKind = "profile"
	ImageCover   ImageKind = "cover"
)

func (k ImageKind) kvKind() (kv.Kind, error) {
	switch k {
	case ImageProfile:
		return kv.KindProfileImage, nil
	case ImageCover:
		return kv.KindCoverImage, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownImageKey, string(k))
	}
}

// ProfileImageService resolves and changes the current user's profile and
// cover images.
type ProfileImageService interface {
	Profile(ctx context.Context) (string, error)
	Cover(ctx context.Context) (string, error)
	Set(ctx context.Context, kind ImageKind, ref models.ImageRef) error
	Upload(ctx context.Context, kind ImageKind, name, contentType string, data []byte) (models.ImageRef, error)
}

type profileImageService struct {
	client    client.Client
	repo      kv.Repository
	session   SessionService
	syncer    *Syncer
	log       logging.Logger
	imageBase string
}

func NewProfileImageService(c client.Client, repo kv.Repository, session SessionService, syncer *Syncer, log logging.Logger, imageBase string) ProfileImageService {
	return &profileImageService{client: c, repo: repo, session: session, syncer: syncer, log: log, imageBase: imageBase}
}

// resolve prefers the image stored on the device, then an inline ref on
// the user record, then a filename on the image host.
func (s *profileImageService) resolve(ctx context.Context, kind ImageKind) (string, error) {
	k, err := kind.kvKind()
	if err != nil {
		return "", err
	}
	stored, err := s.repo.Get(ctx, kv.UserKey(s.session.CurrentID(), k))
	if err != nil {
		return "", err
	}
	if len(stored) > 0 {
		return models.ImageRef(stored).Resolve(s.imageBase), nil
	}

	u := s.session.Current()
	if u == nil {
		return "", nil
	}
	ref := models.ImageRef(u.ProfilePicture)
	if kind == ImageCover {
		ref = models.ImageRef(u.CoverPicture)
	}
	return ref.Resolve(s.imageBase), nil
}

func (s *profileImageService) Profile(ctx context.Context) (string, error) {
	return s.resolve(ctx, ImageProfile)
}

func (s *profileImageService) Cover(ctx context.Context) (string, error) {
	return s.resolve(ctx, ImageCover)
}

// Set stores ref for the current user and mirrors it onto the user record.
// Remote users also get a best-effort profile update on the API.
func (s *profileImageService) Set(ctx context.Context, kind ImageKind, ref models.ImageRef) error {
	k, err := kind.kvKind()
	if err != nil {
		return err
	}
	uid := s.session.CurrentID()
	if err := s.repo.Set(ctx, kv.UserKey(uid, k), []byte(ref)); err != nil {
		return fmt.Errorf("store %s image: %w", kind, err)
	}

	if s.session.Current() == nil {
		return nil
	}
	v := string(ref)
	var patch models.UserPatch
	if kind == ImageProfile {
		patch.ProfilePicture = &v
	} else {
		patch.CoverPicture = &v
	}
	if _, err := s.session.UpdateUser(ctx, patch); err != nil {
		return err
	}

	if !s.session.IsLocal() {
		s.syncer.Go(ctx, "update "+string(kind)+" image", func(ctx context.Context) error {
			_, err := s.client.UpdateUser(ctx, uid, patch)
			return err
		}, "user_id", uid)
	}
	return nil
}

func (s *profileImageService) Upload(ctx context.Context, kind ImageKind, name, contentType string, data []byte) (models.ImageRef, error) {
	if _, err := kind.kvKind(); err != nil {
		return "", err
	}
	ref, err := s.client.UploadImage(ctx, name, contentType, data)
	if err != nil {
		return "", err
	}
	if err := s.Set(ctx, kind, ref); err != nil {
		return "", err
	}
	return ref, nil
}
