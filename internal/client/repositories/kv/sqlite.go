package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wellsta/internal/dbx"
)

// SQLiteRepository implements Repository on the kv table.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const (
	getQuery = `SELECT value FROM kv WHERE scope = ? AND user_id = ? AND kind = ? AND item = ?`
	setQuery = `
		INSERT INTO kv (scope, user_id, kind, item, value) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(scope, user_id, kind, item) DO UPDATE SET value = excluded.value`
	deleteQuery = `DELETE FROM kv WHERE scope = ? AND user_id = ? AND kind = ? AND item = ?`
)

func get(ctx context.Context, db dbx.DBTX, key Key) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, getQuery, key.Scope, key.UserID, key.Kind, key.Item).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key Key, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := db.ExecContext(ctx, setQuery, key.Scope, key.UserID, key.Kind, key.Item, value); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, db dbx.DBTX, key Key) error {
	if _, err := db.ExecContext(ctx, deleteQuery, key.Scope, key.UserID, key.Kind, key.Item); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key Key) ([]byte, error) {
	return get(ctx, r.db, key)
}

func (r *SQLiteRepository) Set(ctx context.Context, key Key, value []byte) error {
	return set(ctx, r.db, key, value)
}

func (r *SQLiteRepository) Delete(ctx context.Context, key Key) error {
	return del(ctx, r.db, key)
}

func (r *SQLiteRepository) Update(ctx context.Context, key Key, fn UpdateFunc) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := get(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return del(ctx, tx, key)
		}
		return set(ctx, tx, key, next)
	})
}

func (r *SQLiteRepository) List(ctx context.Context, scope Scope, userID string) (map[Key][]byte, error) {
	query := `SELECT scope, user_id, kind, item, value FROM kv WHERE scope = ?`
	args := []any{scope}
	if scope == ScopeUser {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[Key][]byte)
	for rows.Next() {
		var k Key
		var value []byte
		if err := rows.Scan(&k.Scope, &k.UserID, &k.Kind, &k.Item, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[k] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ClearSession(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE scope = ?`, ScopeSession); err != nil {
		return fmt.Errorf("failed to clear session kv: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) EvictUser(ctx context.Context, userID string, kinds ...Kind) error {
	query := `DELETE FROM kv WHERE scope = ? AND user_id = ?`
	args := []any{ScopeUser, userID}
	if len(kinds) > 0 {
		query += ` AND kind IN (?` + strings.Repeat(`, ?`, len(kinds)-1) + `)`
		for _, k := range kinds {
			args = append(args, k)
		}
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to evict kv for user %s: %w", userID, err)
	}
	return nil
}
