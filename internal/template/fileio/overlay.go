package fileio

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/tacogips/drvgen/internal/debug"
)

// OverlayStore keeps writes in memory and reads through to a base store for
// files it has not seen. It lets a whole batch run without touching disk
// while later steps still observe the output of earlier ones.
type OverlayStore struct {
	base  Store
	mu    sync.RWMutex
	files map[string]string
}

// NewOverlayStore creates an overlay over base. A nil base uses the local
// filesystem.
func NewOverlayStore(base Store) *OverlayStore {
	if base == nil {
		base = NewFileStore()
	}
	return &OverlayStore{base: base, files: make(map[string]string)}
}

// ReadFile returns the pending content of path, or the base content.
func (s *OverlayStore) ReadFile(path string) (string, error) {
	s.mu.RLock()
	content, ok := s.files[filepath.Clean(path)]
	s.mu.RUnlock()
	if ok {
		return content, nil
	}
	return s.base.ReadFile(path)
}

// WriteFile records content for path without writing it.
func (s *OverlayStore) WriteFile(path string, content string) error {
	debug.Debug("[fileio] Overlay write: %s (size: %d bytes)", path, len(content))
	s.mu.Lock()
	s.files[filepath.Clean(path)] = content
	s.mu.Unlock()
	return nil
}

// Exists reports whether path has pending content or exists in the base.
func (s *OverlayStore) Exists(path string) bool {
	s.mu.RLock()
	_, ok := s.files[filepath.Clean(path)]
	s.mu.RUnlock()
	return ok || s.base.Exists(path)
}

// Pending returns the paths written so far, sorted.
func (s *OverlayStore) Pending() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Content returns the pending content of path.
func (s *OverlayStore) Content(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[filepath.Clean(path)]
	return content, ok
}

// Commit writes every pending file to the base store in path order.
func (s *OverlayStore) Commit() error {
	for _, p := range s.Pending() {
		content, _ := s.Content(p)
		if err := s.base.WriteFile(p, content); err != nil {
			return err
		}
	}
	return nil
}
