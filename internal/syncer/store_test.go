package syncer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirStoreRoundTrip(t *testing.T) {
	store := &DirStore{Root: t.TempDir()}

	_, ok, err := store.Read("a/v1/types.go")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Write("a/v1/types.go", []byte("package a\n")))

	data, ok, err := store.Read("a/v1/types.go")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "package a\n", string(data))
}

func TestDirStoreWriteLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	store := &DirStore{Root: root}

	require.NoError(t, store.Write("a/types.go", []byte("x")))
	require.NoError(t, store.Write("a/types.go", []byte("y")))

	entries, err := os.ReadDir(filepath.Join(root, "a"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "types.go", entries[0].Name())
}

func TestDirStoreRemove(t *testing.T) {
	store := &DirStore{Root: t.TempDir()}
	require.NoError(t, store.Write("a/types.go", []byte("x")))

	require.NoError(t, store.Remove("a/types.go"))
	_, ok, err := store.Read("a/types.go")
	require.NoError(t, err)
	require.False(t, ok)

	// removing an absent file is not an error
	require.NoError(t, store.Remove("a/types.go"))
}

func TestDirStoreList(t *testing.T) {
	store := &DirStore{Root: t.TempDir()}
	require.NoError(t, store.Write("a/v1/types.go", []byte("x")))
	require.NoError(t, store.Write("a/v1/validators.go", []byte("x")))
	require.NoError(t, store.Write("b/v1/types.go", []byte("x")))

	paths, err := store.List("a/v1")
	require.NoError(t, err)
	require.Equal(t, []string{"a/v1/types.go", "a/v1/validators.go"}, paths)

	paths, err = store.List("missing")
	require.NoError(t, err)
	require.Empty(t, paths)
}
