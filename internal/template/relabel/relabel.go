// Package relabel applies a list of literal substitutions to a text buffer as
// one simultaneous relabeling.
//
// Substitutions run in two phases. First every occurrence of each rule's From
// text is replaced, in rule order, by a sentinel tag unique to that rule. The
// tags are built only from private-use code points, so no later From text can
// match inside a tag or across a tag boundary. Then every tag is replaced by
// its rule's To text. The result never depends on whether one rule's To text
// happens to be another rule's From text, which makes swaps like 0->1, 1->0
// and chains like 0->2, 2->3 safe.
package relabel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tacogips/drvgen/internal/template/model"
)

// Sentinel code points. All of them live in the Unicode private use area.
const (
	tagOpen  = '\uE000'
	tagDigit = '\uE001' // digits 0-9 map to U+E001..U+E00A
	tagClose = '\uE00B'
)

// Rule maps one literal to its replacement.
type Rule struct {
	From string
	To   string
}

// Result is the outcome of Apply.
type Result struct {
	// Text is the relabeled text.
	Text string
	// Counts holds the number of occurrences replaced per rule.
	Counts []int
}

// Changed reports whether any rule matched.
func (r *Result) Changed() bool {
	for _, c := range r.Counts {
		if c > 0 {
			return true
		}
	}
	return false
}

// Pairs zips from and to into rules. Lengths must match.
func Pairs(from, to []string) ([]Rule, error) {
	if len(from) != len(to) {
		return nil, model.NewConfigurationError("",
			fmt.Sprintf("substitution lists differ in length: %d old vs %d new", len(from), len(to)), nil)
	}
	rules := make([]Rule, len(from))
	for i := range from {
		rules[i] = Rule{From: from[i], To: to[i]}
	}
	return rules, nil
}

// Apply relabels text. Earlier rules win where matches of two rules overlap.
func Apply(text string, rules []Rule) (*Result, error) {
	if err := validate(text, rules); err != nil {
		return nil, err
	}

	counts := make([]int, len(rules))
	tags := make([]string, len(rules))
	for k, r := range rules {
		tags[k] = tag(k)
		counts[k] = strings.Count(text, r.From)
		if counts[k] > 0 {
			text = strings.ReplaceAll(text, r.From, tags[k])
		}
	}

	for k, r := range rules {
		if counts[k] > 0 {
			text = strings.ReplaceAll(text, tags[k], r.To)
		}
	}

	return &Result{Text: text, Counts: counts}, nil
}

// tag renders the sentinel tag for rule index k.
func tag(k int) string {
	var b strings.Builder
	b.WriteRune(tagOpen)
	for _, d := range strconv.Itoa(k) {
		b.WriteRune(tagDigit + (d - '0'))
	}
	b.WriteRune(tagClose)
	return b.String()
}

func isSentinel(r rune) bool {
	return r >= tagOpen && r <= tagClose
}

func containsSentinel(s string) bool {
	return strings.IndexFunc(s, isSentinel) >= 0
}

func validate(text string, rules []Rule) error {
	for i, r := range rules {
		if r.From == "" {
			return model.NewConfigurationError("", fmt.Sprintf("substitution %d has an empty source token", i), nil)
		}
		if containsSentinel(r.From) || containsSentinel(r.To) {
			return model.NewConfigurationError("",
				fmt.Sprintf("substitution %d (%q -> %q) contains a reserved sentinel code point", i, r.From, r.To), nil)
		}
	}
	if containsSentinel(text) {
		return model.NewConfigurationError("", "text contains a reserved sentinel code point (U+E000..U+E00B)", nil)
	}
	return nil
}
