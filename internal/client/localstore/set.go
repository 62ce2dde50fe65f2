package localstore

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

// Set is an insertion-ordered set of ids stored under one key.
type Set struct {
	repo kv.Repository
	key  kv.Key
	log  logging.Logger
}

func NewSet(repo kv.Repository, key kv.Key, log logging.Logger) *Set {
	return &Set{repo: repo, key: key, log: log}
}

func (s *Set) decode(ctx context.Context, raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.log.Warn(ctx, "discarding corrupt set", "key", s.key.String(), "err", err)
		return nil
	}
	return ids
}

func (s *Set) mutate(ctx context.Context, fn func([]string) []string) error {
	return s.repo.Update(ctx, s.key, func(raw []byte) ([]byte, error) {
		return encode(fn(s.decode(ctx, raw)))
	})
}

func (s *Set) Members(ctx context.Context) ([]string, error) {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	return s.decode(ctx, raw), nil
}

func (s *Set) Contains(ctx context.Context, id string) (bool, error) {
	ids, err := s.Members(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Toggle adds id when absent and removes it when present. It reports
// membership after the change.
func (s *Set) Toggle(ctx context.Context, id string) (bool, error) {
	var member bool
	err := s.mutate(ctx, func(ids []string) []string {
		if i := slices.Index(ids, id); i >= 0 {
			member = false
			return slices.Delete(ids, i, i+1)
		}
		member = true
		return append(ids, id)
	})
	return member, err
}

func (s *Set) Add(ctx context.Context, id string) error {
	return s.mutate(ctx, func(ids []string) []string {
		if slices.Contains(ids, id) {
			return ids
		}
		return append(ids, id)
	})
}

func (s *Set) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func(ids []string) []string {
		return slices.DeleteFunc(ids, func(v string) bool { return v == id })
	})
}
