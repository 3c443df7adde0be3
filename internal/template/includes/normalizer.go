// Package includes normalizes the include block of C source files: every
// directive is hoisted below the prologue, sorted case-insensitively and
// rendered with angle brackets only for standard library headers.
package includes

import (
	"context"
	"slices"
	"strings"

	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/template/fileio"
	"github.com/tacogips/drvgen/internal/template/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer rewrites include blocks.
type Normalizer interface {
	// Normalize returns text with its include block normalized.
	Normalize(text string) string

	// NormalizeFile normalizes path in place. The file is only written when
	// its content changes.
	NormalizeFile(ctx context.Context, path string, dryRun bool) (*Result, error)
}

// Options configures a Normalizer.
type Options struct {
	// StandardLibraries are rendered with angle brackets. Nil means
	// model.DefaultStandardLibraries.
	StandardLibraries model.StandardLibrarySet

	// Keyword is the directive keyword. Empty means DefaultKeyword.
	Keyword string

	// Rule selects which directives are collected.
	Rule CollectRule

	// TrimTrailingSpace strips trailing blanks from every line of files
	// that contain directives.
	TrimTrailingSpace bool
}

// Result describes one normalized file.
type Result struct {
	Path string
	// Directives is the number of directives sorted.
	Directives int
	// Changed reports whether the content differs from the input.
	Changed bool
	// Content is the normalized text (only populated in dry-run).
	Content string
}

// DefaultNormalizer implements Normalizer.
type DefaultNormalizer struct {
	opts  Options
	store fileio.Store
}

// NewNormalizer creates a Normalizer. A nil store uses the local filesystem.
func NewNormalizer(opts Options, store fileio.Store) Normalizer {
	if opts.StandardLibraries == nil {
		opts.StandardLibraries = model.NewStandardLibrarySet(model.DefaultStandardLibraries()...)
	}
	if opts.Keyword == "" {
		opts.Keyword = DefaultKeyword
	}
	if store == nil {
		store = fileio.NewFileStore()
	}
	return &DefaultNormalizer{opts: opts, store: store}
}

// Normalize implements Normalizer.
func (n *DefaultNormalizer) Normalize(text string) string {
	out, _ := n.normalize(text)
	return out
}

func (n *DefaultNormalizer) normalize(text string) (string, int) {
	lines := model.SplitLines(text)
	prologue, collected, epilogue := Partition(lines, n.opts.Keyword, n.opts.Rule)
	if len(collected) == 0 {
		return text, 0
	}

	eol := model.LineEnding(lines)
	// A Caser is stateful, so each call gets its own.
	folder := cases.Upper(language.Und)
	type entry struct {
		directive model.IncludeDirective
		key       string
	}
	entries := make([]entry, len(collected))
	for i, l := range collected {
		d := ParseDirective(l, n.opts.Keyword)
		// Sort on the canonical quoted form so the original delimiter has no
		// influence on the order.
		entries[i] = entry{directive: d, key: folder.String(d.Render(model.DelimiterQuote))}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})

	out := make([]string, 0, len(lines))
	out = append(out, prologue...)
	for _, e := range entries {
		out = append(out, e.directive.Render(n.delimiterFor(e.directive))+eol)
	}
	out = append(out, epilogue...)

	if n.opts.TrimTrailingSpace {
		for i, l := range out {
			body := model.TrimEOL(l)
			out[i] = strings.TrimRight(body, " \t") + l[len(body):]
		}
	}

	result := model.JoinLines(out)
	if !strings.HasSuffix(text, "\n") {
		result = model.TrimEOL(result)
	}
	return result, len(entries)
}

// delimiterFor picks angle brackets for standard library names and quotes
// for everything else. Unparsable directives keep their text.
func (n *DefaultNormalizer) delimiterFor(d model.IncludeDirective) model.Delimiter {
	if d.Delimiter == model.DelimiterNone {
		return model.DelimiterNone
	}
	if n.opts.StandardLibraries.Contains(d.Name) {
		return model.DelimiterAngle
	}
	return model.DelimiterQuote
}

// NormalizeFile implements Normalizer.
func (n *DefaultNormalizer) NormalizeFile(ctx context.Context, path string, dryRun bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := n.store.ReadFile(path)
	if err != nil {
		return nil, err
	}

	normalized, count := n.normalize(content)
	result := &Result{
		Path:       path,
		Directives: count,
		Changed:    normalized != content,
	}
	debug.Debug("[includes] %s: %d directives (%s), changed=%v", path, count, n.opts.Rule, result.Changed)

	if dryRun {
		result.Content = normalized
		return result, nil
	}
	if result.Changed {
		if err := n.store.WriteFile(path, normalized); err != nil {
			return nil, err
		}
	}
	return result, nil
}
