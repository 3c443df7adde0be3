package includes

import (
	"strings"

	"github.com/tacogips/drvgen/internal/template/model"
)

// DefaultKeyword is the include directive keyword of C sources.
const DefaultKeyword = "#include"

// CollectRule selects which directive lines are hoisted into the sorted block.
type CollectRule int

const (
	// CollectAll collects every directive from the first one to the end of
	// the file, even past non-directive lines.
	CollectAll CollectRule = iota
	// StopAtGap collects only the contiguous run starting at the first
	// directive. Later directives stay where they are.
	StopAtGap
)

// String returns the rule name shown in debug output.
func (r CollectRule) String() string {
	if r == StopAtGap {
		return "stop-at-gap"
	}
	return "collect-all"
}

// IsDirective reports whether line, after leading whitespace, starts with
// keyword.
func IsDirective(line, keyword string) bool {
	if keyword == "" {
		keyword = DefaultKeyword
	}
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), keyword)
}

// ParseDirective decomposes a directive line. Lines whose name is not
// enclosed in <> or "" (e.g. macro includes) get DelimiterNone.
func ParseDirective(line, keyword string) model.IncludeDirective {
	if keyword == "" {
		keyword = DefaultKeyword
	}
	raw := strings.TrimLeft(model.TrimEOL(line), " \t")
	d := model.IncludeDirective{Keyword: keyword, Raw: raw}

	rest := strings.TrimLeft(strings.TrimPrefix(raw, keyword), " \t")
	if rest == "" {
		return d
	}

	var closing byte
	switch rest[0] {
	case '<':
		d.Delimiter, closing = model.DelimiterAngle, '>'
	case '"':
		d.Delimiter, closing = model.DelimiterQuote, '"'
	default:
		return d
	}

	end := strings.IndexByte(rest[1:], closing)
	if end < 0 {
		d.Delimiter = model.DelimiterNone
		return d
	}
	d.Name = rest[1 : end+1]
	d.Trailing = rest[end+2:]
	return d
}

// Partition splits lines into the prologue before the first directive, the
// directives to sort and the remaining lines in their original order.
func Partition(lines []string, keyword string, rule CollectRule) (prologue, collected, epilogue []string) {
	first := -1
	for i, l := range lines {
		if IsDirective(l, keyword) {
			first = i
			break
		}
	}
	if first < 0 {
		return lines, nil, nil
	}

	prologue = lines[:first]
	inRun := true
	for _, l := range lines[first:] {
		isDir := IsDirective(l, keyword)
		if rule == StopAtGap && !isDir {
			inRun = false
		}
		if isDir && inRun {
			collected = append(collected, l)
		} else {
			epilogue = append(epilogue, l)
		}
	}
	return prologue, collected, epilogue
}
