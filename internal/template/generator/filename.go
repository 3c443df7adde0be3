package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tacogips/drvgen/internal/template/model"
)

// ResolvePaths resolves bound file paths against baseDir and validates them.
// Returns a ConfigurationError if:
// - a path is empty or resolves to a directory-like value ("." or a trailing separator)
// - two positions resolve to the same file
func ResolvePaths(baseDir string, paths []string) ([]string, error) {
	resolved := make([]string, len(paths))
	seen := make(map[string]int, len(paths))

	for i, p := range paths {
		if err := validatePath(p); err != nil {
			return nil, err
		}

		full := p
		if baseDir != "" && !filepath.IsAbs(p) {
			full = filepath.Join(baseDir, p)
		}
		full = filepath.Clean(full)

		if prev, ok := seen[full]; ok {
			return nil, model.NewConfigurationError(full,
				fmt.Sprintf("file positions %d and %d resolve to the same path", prev, i), nil)
		}
		seen[full] = i
		resolved[i] = full
	}

	return resolved, nil
}

// validatePath validates a single bound path.
func validatePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return model.NewConfigurationError(p, "file path is empty", nil)
	}

	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return model.NewConfigurationError(p, "file path must name a file, not a directory", nil)
	}

	if filepath.Clean(p) == "." {
		return model.NewConfigurationError(p, "file path resolves to current directory", nil)
	}

	return nil
}
