package syncer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirSourceDiscover(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))

	for _, name := range []string{"b.json", "a.yaml", "c.yml", "notes.txt", "nested/d.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("{}"), 0o644))
	}

	src := &DirSource{Root: root}
	ids, err := src.Discover(context.Background())
	require.NoError(t, err)

	// schema extensions only, sorted, slash-relative
	require.Equal(t, []string{"a.yaml", "b.json", "c.yml", "nested/d.json"}, ids)
}

func TestDirSourceIncludeFilter(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"widgets.json", "gadgets.json", "extra.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("{}"), 0o644))
	}

	src := &DirSource{Root: root, Include: []string{"widgets.*"}}
	ids, err := src.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"widgets.json"}, ids)
}

func TestDirSourceFetch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.json"), []byte(`{"x":1}`), 0o644))

	src := &DirSource{Root: root}
	data, err := src.Fetch(context.Background(), "a.json")
	require.NoError(t, err)
	require.Equal(t, `{"x":1}`, string(data))

	_, err = src.Fetch(context.Background(), "missing.json")
	require.Error(t, err)
}

func TestDirSourceMissingRoot(t *testing.T) {
	src := &DirSource{Root: filepath.Join(t.TempDir(), "nope")}
	_, err := src.Discover(context.Background())
	require.Error(t, err)
}
