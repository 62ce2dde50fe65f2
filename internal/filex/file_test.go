package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDir(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "data", "nested", "wellsta.db")

	dir, err := EnsureParentDir(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "data", "nested"), dir)

	st, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, st.IsDir())
}

func TestEnsureParentDir_BareFileName(t *testing.T) {
	dir, err := EnsureParentDir("wellsta.db")
	require.NoError(t, err)
	require.Equal(t, ".", dir)
}

func TestEnsureParentDir_FileInTheWay(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "wellsta.db"))
	require.Error(t, err)
}
