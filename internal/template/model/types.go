package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSlot is the placeholder substituted with an instance index in file
// and token templates.
const DefaultSlot = "?"

// TokenPair is a literal substring mapping applied during instantiation.
type TokenPair struct {
	// Old is the text searched for in the source.
	Old string `json:"old" yaml:"old" toml:"old"`
	// New is the text written in its place.
	New string `json:"new" yaml:"new" toml:"new"`
}

// TemplateGroup is a set of files that are instantiated together, plus the
// token templates shared by every instantiation.
type TemplateGroup struct {
	// Files are file path templates, e.g. "Uart/Uart?Dma.c".
	Files []string
	// Tokens are token pair templates. Old is bound to the source index and
	// New to the destination index.
	Tokens []TokenPair
	// Slot is the placeholder in Files and Tokens. Empty means DefaultSlot.
	Slot string
}

// SlotOrDefault returns the effective slot placeholder.
func (g TemplateGroup) SlotOrDefault() string {
	if g.Slot == "" {
		return DefaultSlot
	}
	return g.Slot
}

// Validate checks the group invariants: at least one file, every template
// carries the slot exactly once and no token side is empty.
func (g TemplateGroup) Validate() error {
	slot := g.SlotOrDefault()
	if len(g.Files) == 0 {
		return NewConfigurationError("", "template group has no files", nil)
	}
	for i, f := range g.Files {
		if n := strings.Count(f, slot); n != 1 {
			return NewConfigurationError(f,
				fmt.Sprintf("file template %d must contain slot %q exactly once (found %d)", i, slot, n), nil)
		}
	}
	for i, tok := range g.Tokens {
		if strings.Count(tok.Old, slot) != 1 || strings.Count(tok.New, slot) != 1 {
			return NewConfigurationError("",
				fmt.Sprintf("token template %d (%q -> %q) must contain slot %q exactly once on each side", i, tok.Old, tok.New, slot), nil)
		}
	}
	return nil
}

// SourceFiles binds the slot of every file template to index.
func (g TemplateGroup) SourceFiles(index int) []string {
	return bindAll(g.Files, g.SlotOrDefault(), index)
}

// DestinationFiles binds the slot of every file template to index.
func (g TemplateGroup) DestinationFiles(index int) []string {
	return bindAll(g.Files, g.SlotOrDefault(), index)
}

// SourceTokens returns the Old side of every token template bound to index.
func (g TemplateGroup) SourceTokens(index int) []string {
	olds := make([]string, len(g.Tokens))
	for i, tok := range g.Tokens {
		olds[i] = Bind(tok.Old, g.SlotOrDefault(), index)
	}
	return olds
}

// DestinationTokens returns the New side of every token template bound to index.
func (g TemplateGroup) DestinationTokens(index int) []string {
	news := make([]string, len(g.Tokens))
	for i, tok := range g.Tokens {
		news[i] = Bind(tok.New, g.SlotOrDefault(), index)
	}
	return news
}

// Bind replaces every occurrence of slot in tmpl with the decimal index.
func Bind(tmpl, slot string, index int) string {
	return strings.ReplaceAll(tmpl, slot, strconv.Itoa(index))
}

func bindAll(tmpls []string, slot string, index int) []string {
	out := make([]string, len(tmpls))
	for i, t := range tmpls {
		out[i] = Bind(t, slot, index)
	}
	return out
}

// IdentifierFamily is an identifier naming pattern with one numeric slot,
// e.g. "DMA?" matches DMA0, DMA1, ...
type IdentifierFamily struct {
	Pattern string
	// Slot is the placeholder in Pattern. Empty means DefaultSlot.
	Slot string
}

// NewFamilies builds families sharing the same slot.
func NewFamilies(slot string, patterns ...string) []IdentifierFamily {
	fams := make([]IdentifierFamily, len(patterns))
	for i, p := range patterns {
		fams[i] = IdentifierFamily{Pattern: p, Slot: slot}
	}
	return fams
}

// SlotOrDefault returns the effective slot placeholder.
func (f IdentifierFamily) SlotOrDefault() string {
	if f.Slot == "" {
		return DefaultSlot
	}
	return f.Slot
}

// Split returns the literal text before and after the slot.
func (f IdentifierFamily) Split() (prefix, suffix string) {
	prefix, suffix, _ = strings.Cut(f.Pattern, f.SlotOrDefault())
	return prefix, suffix
}

// Expand renders the family member for value.
func (f IdentifierFamily) Expand(value string) string {
	return strings.Replace(f.Pattern, f.SlotOrDefault(), value, 1)
}

// ValidateFamilies checks that every family has exactly one slot and that no
// family pattern can match inside another one.
func ValidateFamilies(families []IdentifierFamily) error {
	if len(families) == 0 {
		return NewConfigurationError("", "no identifier families given", nil)
	}
	for _, f := range families {
		if n := strings.Count(f.Pattern, f.SlotOrDefault()); n != 1 {
			return NewConfigurationError("",
				fmt.Sprintf("family %q must contain slot %q exactly once (found %d)", f.Pattern, f.SlotOrDefault(), n), nil)
		}
	}
	for i, a := range families {
		for j, b := range families {
			if i == j {
				continue
			}
			if a.Pattern == b.Pattern && i > j {
				return NewConfigurationError("", fmt.Sprintf("family %q is listed twice", a.Pattern), nil)
			}
			if a.Pattern != b.Pattern && strings.Contains(b.Expand("0"), a.Expand("0")) {
				return NewConfigurationError("",
					fmt.Sprintf("family %q is ambiguous with %q", a.Pattern, b.Pattern), nil)
			}
		}
	}
	return nil
}

// RenumberMapping pairs discovered old values with new values by position.
type RenumberMapping struct {
	Old []string
	New []string
}

// Validate checks len(Old) == len(New).
func (m RenumberMapping) Validate() error {
	if len(m.Old) != len(m.New) {
		return NewConfigurationError("",
			fmt.Sprintf("renumber mapping has %d old values but %d new values", len(m.Old), len(m.New)), nil)
	}
	return nil
}

// Delimiter is the bracket style of an include directive.
type Delimiter int

const (
	// DelimiterNone means the directive has no recognizable delimiter
	// (e.g. a macro include).
	DelimiterNone Delimiter = iota
	// DelimiterQuote is #include "name".
	DelimiterQuote
	// DelimiterAngle is #include <name>.
	DelimiterAngle
)

// String returns the delimiter name.
func (d Delimiter) String() string {
	switch d {
	case DelimiterQuote:
		return "quote"
	case DelimiterAngle:
		return "angle"
	default:
		return "none"
	}
}

// IncludeDirective is one include line decomposed into its parts.
type IncludeDirective struct {
	// Keyword is the directive keyword as written, e.g. "#include".
	Keyword string
	// Delimiter is the original delimiter kind.
	Delimiter Delimiter
	// Name is the included name without delimiters.
	Name string
	// Trailing is everything after the closing delimiter (comments etc).
	Trailing string
	// Raw is the line without leading whitespace or line terminator. Used
	// verbatim when Delimiter is DelimiterNone.
	Raw string
}

// Render writes the directive with the given delimiter.
func (d IncludeDirective) Render(delim Delimiter) string {
	switch delim {
	case DelimiterAngle:
		return d.Keyword + " <" + d.Name + ">" + d.Trailing
	case DelimiterQuote:
		return d.Keyword + " \"" + d.Name + "\"" + d.Trailing
	default:
		return d.Raw
	}
}

// StandardLibrarySet is the set of include names rendered with angle
// delimiters.
type StandardLibrarySet map[string]struct{}

// NewStandardLibrarySet builds a set from names.
func NewStandardLibrarySet(names ...string) StandardLibrarySet {
	s := make(StandardLibrarySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports exact membership.
func (s StandardLibrarySet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// DefaultStandardLibraries returns the C standard library headers.
func DefaultStandardLibraries() []string {
	return []string{
		"assert.h", "complex.h", "ctype.h", "errno.h", "fenv.h", "float.h", "inttypes.h",
		"iso646.h", "limits.h", "locale.h", "math.h", "setjmp.h", "signal.h", "stdalign.h",
		"stdarg.h", "stdatomic.h", "stdbool.h", "stddef.h", "stdint.h", "stdio.h", "stdlib.h",
		"stdnoreturn.h", "string.h", "strings.h", "tgmath.h", "threads.h", "time.h", "uchar.h",
		"wchar.h", "wctype.h",
	}
}
