// Package sweep finds source files under directory trees and processes them
// in parallel.
package sweep

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/template/model"
)

// DefaultExtensions are the file extensions swept when none are configured.
var DefaultExtensions = []string{".c", ".h"}

// WalkOptions configures Collect.
type WalkOptions struct {
	// Skip holds glob patterns. A directory or file matching any of them is
	// not visited.
	Skip []string

	// Extensions restricts the files returned. Empty means DefaultExtensions.
	Extensions []string
}

// Collect returns every matching file under roots in lexical order. A root
// that is a file is returned as is if its extension matches.
func Collect(roots []string, opts WalkOptions) ([]string, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, root := range roots {
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if path != root && ShouldSkip(rel, opts.Skip) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if hasExtension(path, exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, model.NewNotFoundError(root, err)
			}
			return nil, model.NewIOError(root, "failed to walk directory", err)
		}
	}

	slices.Sort(files)
	debug.Debug("[sweep] Collected %d files from %d roots", len(files), len(roots))
	return files, nil
}

// Filter applies the rules of Collect to paths that may not exist on disk
// yet. Paths outside every root are dropped.
func Filter(paths, roots []string, opts WalkOptions) []string {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var out []string
	for _, path := range paths {
		if !hasExtension(path, exts) {
			continue
		}
		for _, root := range roots {
			if withinRoot(filepath.Clean(root), filepath.Clean(path), opts.Skip) {
				out = append(out, path)
				break
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// withinRoot reports whether path lies under root and no element between
// them is skipped.
func withinRoot(root, path string, skip []string) bool {
	if root == path {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for i := range parts {
		if ShouldSkip(filepath.Join(parts[:i+1]...), skip) {
			return false
		}
	}
	return true
}

// ShouldSkip reports whether path matches any of the skip patterns.
func ShouldSkip(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchesPattern(path, pattern) {
			debug.Debug("[sweep] Skipping: %s (matched pattern: %s)", path, pattern)
			return true
		}
	}
	return false
}

// MatchesPattern checks if a path matches a glob pattern, either as a whole
// or by its last element.
func MatchesPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
