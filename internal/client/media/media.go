package media

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/wellsta/internal/client/models"
)

var ErrEmptyUpload = errors.New("empty upload")

// Store persists uploaded bytes and returns a reference to them.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error)
}

func detectContentType(contentType string, data []byte) string {
	if contentType != "" {
		return contentType
	}
	return http.DetectContentType(data)
}

type InlineStore struct{}

func NewInlineStore() *InlineStore { return &InlineStore{} }

func (*InlineStore) Put(_ context.Context, _ string, contentType string, data []byte) (models.ImageRef, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	ct := detectContentType(contentType, data)
	return models.ImageRef("data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}
