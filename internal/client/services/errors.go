package services

import "errors"

var (
	ErrEmptyPost       = errors.New("post has no content")
	ErrMissingMood     = errors.New("no mood selected")
	ErrEmptyJournal    = errors.New("journal entry is empty")
	ErrEmptyComment    = errors.New("comment is empty")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrPostNotFound    = errors.New("post not found")
	ErrMissingEmail    = errors.New("email is required")
	ErrUnknownImageKey = errors.New("unknown image kind")
)
