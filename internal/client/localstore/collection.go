package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/common"
	"github.com/dmitrijs2005/wellsta/internal/logging"
	"github.com/google/uuid"
)

// Item is the constraint for collection elements: a pointer to T with a
// string id.
type Item[T any] interface {
	*T
	GetID() string
	SetID(id string)
}

type Collection[T any, PT Item[T]] struct {
	repo   kv.Repository
	key    kv.Key
	prefix string
	log    logging.Logger
}

// NewCollection binds a collection to key. Ids assigned by Create are
// prefix followed by a random UUID.
func NewCollection[T any, PT Item[T]](repo kv.Repository, key kv.Key, prefix string, log logging.Logger) *Collection[T, PT] {
	return &Collection[T, PT]{repo: repo, key: key, prefix: prefix, log: log}
}

func (c *Collection[T, PT]) Key() kv.Key { return c.key }

func (c *Collection[T, PT]) decode(ctx context.Context, raw []byte) []T {
	if len(raw) == 0 {
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warn(ctx, "discarding corrupt collection", "key", c.key.String(), "err", err)
		return nil
	}
	return items
}

func encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	raw, err := c.repo.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	return c.decode(ctx, raw), nil
}

func (c *Collection[T, PT]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, err
	}
	for i := range items {
		if PT(&items[i]).GetID() == id {
			return items[i], nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", c.key, id, common.ErrNotFound)
}

func (c *Collection[T, PT]) mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	return c.repo.Update(ctx, c.key, func(raw []byte) ([]byte, error) {
		next, err := fn(c.decode(ctx, raw))
		if err != nil {
			return nil, err
		}
		return encode(next)
	})
}

func (c *Collection[T, PT]) assignID(item *T) {
	if PT(item).GetID() == "" {
		PT(item).SetID(c.prefix + uuid.NewString())
	}
}

// Create stores item at the head of the list, assigning an id when it has
// none, and returns the stored item.
func (c *Collection[T, PT]) Create(ctx context.Context, item T) (T, error) {
	c.assignID(&item)
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		return append([]T{item}, items...), nil
	})
	return item, err
}

// Append is Create at the tail of the list.
func (c *Collection[T, PT]) Append(ctx context.Context, item T) (T, error) {
	c.assignID(&item)
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		return append(items, item), nil
	})
	return item, err
}

// Update applies fn to the item with id and stores the result. An error
// from fn aborts the write.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, fn func(PT) error) (T, error) {
	var updated T
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			p := PT(&items[i])
			if p.GetID() != id {
				continue
			}
			if err := fn(p); err != nil {
				return nil, err
			}
			p.SetID(id)
			updated = items[i]
			return items, nil
		}
		return nil, fmt.Errorf("%s %q: %w", c.key, id, common.ErrNotFound)
	})
	return updated, err
}

// Delete removes the item with id and reports whether it was present.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		n := len(items)
		items = slices.DeleteFunc(items, func(it T) bool { return PT(&it).GetID() == id })
		found = len(items) != n
		return items, nil
	})
	return found, err
}

// Replace overwrites the whole list.
func (c *Collection[T, PT]) Replace(ctx context.Context, items []T) error {
	raw, err := encode(items)
	if err != nil {
		return err
	}
	return c.repo.Set(ctx, c.key, raw)
}

// Clear removes the stored list.
func (c *Collection[T, PT]) Clear(ctx context.Context) error {
	return c.repo.Delete(ctx, c.key)
}
