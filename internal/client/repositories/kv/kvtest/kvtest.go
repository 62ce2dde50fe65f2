// Package kvtest opens migrated in-memory kv repositories for tests.
package kvtest

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/stretchr/testify/require"
)

// New returns a repository over a fresh in-memory database that is closed
// when the test ends.
func New(t testing.TB) *kv.SQLiteRepository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return kv.NewSQLiteRepository(db)
}
