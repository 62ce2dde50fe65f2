package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUploadFailed = errors.New("upload failed")
)

// StatusError is a non-2xx response. It unwraps to the sentinel matching
// its status class.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote api: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("remote api: %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized, e.Code == http.StatusForbidden:
		return ErrUnauthorized
	case e.Code == http.StatusNotFound:
		return ErrNotFound
	case e.Code >= 500:
		return ErrUnavailable
	default:
		return ErrBadRequest
	}
}

// mapError classifies transport failures. Anything that is not already a
// StatusError means the request never got an answer.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
