package kv

import "context"

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store. Returning nil deletes the key.
type UpdateFunc func(current []byte) ([]byte, error)

// Repository is durable key/value storage for client state.
type Repository interface {
	// Get returns the value or (nil, nil) when the key is absent.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set inserts or overwrites the value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key Key) error

	// Update atomically replaces the value with fn(current).
	Update(ctx context.Context, key Key, fn UpdateFunc) error

	// List returns every value in scope for userID (ignored for ScopeSession).
	List(ctx context.Context, scope Scope, userID string) (map[Key][]byte, error)

	// ClearSession removes all ScopeSession keys. Per-user keys are kept.
	ClearSession(ctx context.Context) error

	// EvictUser removes the per-user keys of userID, restricted to kinds
	// when any are given.
	EvictUser(ctx context.Context, userID string, kinds ...Kind) error
}
