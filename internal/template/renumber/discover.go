package renumber

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tacogips/drvgen/internal/template/model"
)

// DefaultDomain matches a single decimal digit.
const DefaultDomain = "[0-9]"

// Discover scans text once for members of any family and returns the distinct
// values found, in ascending numeric order. Values outside domain are not
// matched. An empty domain means DefaultDomain.
func Discover(text string, families []model.IdentifierFamily, domain string) ([]string, error) {
	re, err := familyPattern(families, domain)
	if err != nil {
		return nil, err
	}

	groups := valueGroups(re)
	seen := make(map[string]struct{})
	var values []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		for _, g := range groups {
			v := m[g]
			if v == "" {
				continue
			}
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				values = append(values, v)
			}
			break
		}
	}

	SortValues(values)
	return values, nil
}

// SortValues orders values numerically, falling back to lexical order for
// values that are not plain integers.
func SortValues(values []string) {
	slices.SortFunc(values, func(a, b string) int {
		ai, aerr := strconv.Atoi(a)
		bi, berr := strconv.Atoi(b)
		if aerr == nil && berr == nil && ai != bi {
			if ai < bi {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})
}

// familyPattern builds one alternation over every family. Each family's slot
// becomes a named group value<i> holding domain.
func familyPattern(families []model.IdentifierFamily, domain string) (*regexp.Regexp, error) {
	if err := model.ValidateFamilies(families); err != nil {
		return nil, err
	}
	if domain == "" {
		domain = DefaultDomain
	}
	if _, err := regexp.Compile(domain); err != nil {
		return nil, model.NewConfigurationError("", fmt.Sprintf("invalid value domain %q", domain), err)
	}

	alts := make([]string, len(families))
	for i, f := range families {
		prefix, suffix := f.Split()
		alts[i] = fmt.Sprintf("%s(?P<value%d>%s)%s", regexp.QuoteMeta(prefix), i, domain, regexp.QuoteMeta(suffix))
	}
	re, err := regexp.Compile(strings.Join(alts, "|"))
	if err != nil {
		return nil, model.NewConfigurationError("", "failed to compile family pattern", err)
	}
	return re, nil
}

// valueGroups returns the submatch indices of the value<i> groups.
func valueGroups(re *regexp.Regexp) []int {
	var idx []int
	for i, name := range re.SubexpNames() {
		if strings.HasPrefix(name, "value") {
			idx = append(idx, i)
		}
	}
	return idx
}
