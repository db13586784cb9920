package folder

import (
	"regexp"
	"strings"
)

// CasePolicy controls how Filter folds case before matching.
type CasePolicy uint8

const (
	CaseSmart CasePolicy = iota
	CaseSensitive
	CaseInsensitive
)

// Filter is a compiled regex with a case policy, applied to file names.
type Filter struct {
	raw    string
	re     *regexp.Regexp
	policy CasePolicy
}

// NewFilter compiles pattern under the given case policy. Smart case is
// case-insensitive unless the pattern contains an uppercase letter.
func NewFilter(pattern string, policy CasePolicy) (Filter, error) {
	insensitive := policy == CaseInsensitive
	if policy == CaseSmart {
		insensitive = !strings.ContainsFunc(pattern, func(r rune) bool {
			return r >= 'A' && r <= 'Z'
		})
	}
	expr := pattern
	if insensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Filter{}, err
	}
	return Filter{raw: pattern, re: re, policy: policy}, nil
}

// Match reports whether name matches the filter.
func (f Filter) Match(name string) bool {
	if f.re == nil {
		return true
	}
	return f.re.MatchString(name)
}

// String returns the original, uncompiled pattern.
func (f Filter) String() string { return f.raw }

// IsZero reports whether no filter is active.
func (f Filter) IsZero() bool { return f.re == nil }
