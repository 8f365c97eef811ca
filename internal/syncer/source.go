package syncer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source supplies schema documents: Discover enumerates identifiers, Fetch
// returns one document's raw bytes. Network corpora plug in behind this
// interface; the orchestrator itself never does I/O beyond it.
type Source interface {
	Discover(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// DirSource discovers schema documents under a filesystem root, optionally
// filtered by base-name patterns.
type DirSource struct {
	Root    string
	Include []string
}

func (s *DirSource) Discover(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(s.Root); err != nil {
		return nil, fmt.Errorf("reading discovery root %s: %w", s.Root, err)
	}

	var ids []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if !isSchemaFile(d.Name()) || !s.matches(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking discovery root %s: %w", s.Root, err)
	}

	sort.Strings(ids)
	return ids, nil
}

func (s *DirSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(id)))
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func (s *DirSource) matches(name string) bool {
	if len(s.Include) == 0 {
		return true
	}
	for _, pattern := range s.Include {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
