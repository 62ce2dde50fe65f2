package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/localstore"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

// CommentService keeps per-post comment threads on the device. Comments
// are append-only.
type CommentService interface {
	Add(ctx context.Context, postID, text string) (*models.Comment, error)
	List(ctx context.Context, postID string) ([]models.Comment, error)
}

type commentService struct {
	repo    kv.Repository
	session SessionService
	log     logging.Logger
	now     func() time.Time
}

func NewCommentService(repo kv.Repository, session SessionService, log logging.Logger) CommentService {
	return &commentService{repo: repo, session: session, log: log, now: time.Now}
}

func (s *commentService) thread(postID string) *localstore.Collection[models.Comment, *models.Comment] {
	return localstore.NewCollection[models.Comment](s.repo, kv.ItemKey(s.session.CurrentID(), kv.KindComments, postID), "comment-", s.log)
}

func (s *commentService) Add(ctx context.Context, postID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	c, err := s.thread(postID).Append(ctx, models.Comment{
		PostID:    postID,
		AuthorID:  s.session.CurrentID(),
		Text:      text,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *commentService) List(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.thread(postID).List(ctx)
}
