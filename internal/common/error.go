package common

import "errors"

// ErrNotFound is returned by stores when an id is absent.
var ErrNotFound = errors.New("not found")
