package syncer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Store persists generated files and serves prior committed contents for
// diffing. Paths are slash-separated, relative to the store root.
type Store interface {
	// Read returns a file's contents; ok is false when the file does not exist.
	Read(path string) (data []byte, ok bool, err error)
	Write(path string, data []byte) error
	Remove(path string) error
	// List returns every file path under prefix, sorted.
	List(prefix string) ([]string, error)
}

// DirStore is the filesystem Store. Writes go through a temp file in the
// destination directory followed by a rename, so a concurrent reader never
// observes a half-written file.
type DirStore struct {
	Root string
}

func (s *DirStore) Read(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.abs(path))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *DirStore) Write(path string, data []byte) error {
	dst := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".quarry-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing %s: %w", path, err)
	}
	return nil
}

func (s *DirStore) Remove(path string) error {
	err := os.Remove(s.abs(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *DirStore) List(prefix string) ([]string, error) {
	root := s.abs(prefix)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *DirStore) abs(path string) string {
	return filepath.Join(s.Root, filepath.FromSlash(path))
}
