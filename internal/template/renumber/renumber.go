// Package renumber rewrites the numeric values of identifier families in a
// file, e.g. DMA channel selections, as one simultaneous permutation.
package renumber

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/template/fileio"
	"github.com/tacogips/drvgen/internal/template/model"
	"go.uber.org/zap"
)

// Renumberer remaps identifier values in files.
type Renumberer interface {
	// Renumber discovers the values used in path and rewrites them to
	// newValues, pairing ascending old values with newValues by position.
	Renumber(ctx context.Context, path string, families []model.IdentifierFamily, newValues []string, opts Options) (*Result, error)
}

// Options configures a renumbering.
type Options struct {
	// From lists the old values explicitly instead of discovering them.
	// Its length must equal the number of new values.
	From []string

	// Domain is the regular expression a value must match. Empty means DefaultDomain.
	Domain string

	// DryRun computes the result without writing.
	DryRun bool
}

// Result describes one renumbered file.
type Result struct {
	Path string
	// Mapping pairs old and new values in application order.
	Mapping model.RenumberMapping
	// Replacements is the number of identifier occurrences rewritten.
	Replacements int
	// Changed reports whether the text differs from the input.
	Changed bool
	// Content is the rewritten text (only populated in dry-run).
	Content string
}

// DefaultRenumberer implements Renumberer.
type DefaultRenumberer struct {
	store fileio.Store
}

// NewRenumberer creates a Renumberer backed by store. A nil store uses the
// local filesystem.
func NewRenumberer(store fileio.Store) Renumberer {
	if store == nil {
		store = fileio.NewFileStore()
	}
	return &DefaultRenumberer{store: store}
}

// Renumber rewrites path in place.
func (r *DefaultRenumberer) Renumber(ctx context.Context, path string, families []model.IdentifierFamily, newValues []string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := r.store.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text, mapping, count, err := Rewrite(content, families, newValues, opts)
	if err != nil {
		var te *model.TransformError
		if errors.As(err, &te) && te.Path == "" {
			te.Path = path
		}
		return nil, err
	}

	result := &Result{
		Path:         path,
		Mapping:      mapping,
		Replacements: count,
		Changed:      text != content,
	}

	debug.DebugFields("[renumber] Mapping resolved",
		zap.String("path", path),
		zap.Strings("old", mapping.Old),
		zap.Strings("new", mapping.New),
		zap.Int("replacements", count))

	if opts.DryRun {
		result.Content = text
		return result, nil
	}
	if result.Changed {
		if err := r.store.WriteFile(path, text); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Rewrite is the pure form of Renumber: it returns the rewritten text, the
// mapping used and the number of occurrences replaced. Family members are
// located with the same pattern Discover uses and rewritten in one
// left-to-right pass, so a replacement is never matched again and a short
// value never matches inside a longer one.
func Rewrite(text string, families []model.IdentifierFamily, newValues []string, opts Options) (string, model.RenumberMapping, int, error) {
	mapping, err := resolveMapping(text, families, newValues, opts)
	if err != nil {
		return "", model.RenumberMapping{}, 0, err
	}
	re, err := familyPattern(families, opts.Domain)
	if err != nil {
		return "", mapping, 0, err
	}

	table := make(map[string]string, len(mapping.Old))
	for i, old := range mapping.Old {
		table[old] = mapping.New[i]
	}

	groups := valueGroups(re)
	var b strings.Builder
	last, count := 0, 0
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		for _, g := range groups {
			start, end := m[2*g], m[2*g+1]
			if start < 0 || start == end {
				continue
			}
			if repl, ok := table[text[start:end]]; ok {
				b.WriteString(text[last:start])
				b.WriteString(repl)
				last = end
				count++
			}
			break
		}
	}
	b.WriteString(text[last:])
	return b.String(), mapping, count, nil
}

func resolveMapping(text string, families []model.IdentifierFamily, newValues []string, opts Options) (model.RenumberMapping, error) {
	for i, v := range newValues {
		if v == "" {
			return model.RenumberMapping{}, model.NewConfigurationError("", fmt.Sprintf("new value %d is empty", i), nil)
		}
	}

	if opts.From != nil {
		if err := model.ValidateFamilies(families); err != nil {
			return model.RenumberMapping{}, err
		}
		mapping := model.RenumberMapping{Old: opts.From, New: newValues}
		if err := mapping.Validate(); err != nil {
			return model.RenumberMapping{}, err
		}
		if err := validateFrom(opts.From, opts.Domain); err != nil {
			return model.RenumberMapping{}, err
		}
		return mapping, nil
	}

	old, err := Discover(text, families, opts.Domain)
	if err != nil {
		return model.RenumberMapping{}, err
	}
	if len(newValues) < len(old) {
		return model.RenumberMapping{}, model.NewConfigurationError("",
			fmt.Sprintf("found values %v but only %d new values were given", old, len(newValues)), nil)
	}
	return model.RenumberMapping{Old: old, New: newValues[:len(old)]}, nil
}

// validateFrom checks that explicit old values are distinct and lie in the
// value domain; a value outside it could never be located.
func validateFrom(from []string, domain string) error {
	if domain == "" {
		domain = DefaultDomain
	}
	whole, err := regexp.Compile("^(?:" + domain + ")$")
	if err != nil {
		return model.NewConfigurationError("", fmt.Sprintf("invalid value domain %q", domain), err)
	}
	seen := make(map[string]struct{}, len(from))
	for i, v := range from {
		if v == "" {
			return model.NewConfigurationError("", fmt.Sprintf("old value %d is empty", i), nil)
		}
		if !whole.MatchString(v) {
			return model.NewConfigurationError("", fmt.Sprintf("old value %q is outside the value domain %q", v, domain), nil)
		}
		if _, dup := seen[v]; dup {
			return model.NewConfigurationError("", fmt.Sprintf("old value %q is listed twice", v), nil)
		}
		seen[v] = struct{}{}
	}
	return nil
}
