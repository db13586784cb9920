package folder

import (
	"strings"

	"github.com/yazi-go/yazi/internal/yzurl"
)

// ModeKind distinguishes the tab's visual-selection mode per spec.md §4.3.
type ModeKind uint8

const (
	ModeNormal ModeKind = iota
	ModeSelect
	ModeUnset
)

// Mode tracks an in-progress visual selection sweep.
type Mode struct {
	Kind   ModeKind
	Anchor int
	Set    map[string]struct{} // urns swept so far, for Set/Unset replay
}

// NewMode starts a visual-selection sweep anchored at pos.
func NewMode(kind ModeKind, pos int) Mode {
	return Mode{Kind: kind, Anchor: pos, Set: make(map[string]struct{})}
}

// Range returns the swept [min(anchor,cursor), max(anchor,cursor)] bounds.
func (m Mode) Range(cursor int) (lo, hi int) {
	if m.Anchor <= cursor {
		return m.Anchor, cursor
	}
	return cursor, m.Anchor
}

// Selection is the tab's committed set of selected URLs. It rejects
// nesting: a path cannot be selected if an ancestor or descendant is
// already selected (spec.md §4.3).
type Selection struct {
	urls map[uint64]yzurl.URL
}

// NewSelection creates an empty Selection.
func NewSelection() *Selection {
	return &Selection{urls: make(map[uint64]yzurl.URL)}
}

// Add inserts url if it does not nest with any existing member. Reports
// whether the insertion happened.
func (s *Selection) Add(url yzurl.URL) bool {
	for _, existing := range s.urls {
		if nests(existing, url) || nests(url, existing) {
			return false
		}
	}
	s.urls[url.Hash()] = url
	return true
}

// Remove drops url from the selection.
func (s *Selection) Remove(url yzurl.URL) {
	delete(s.urls, url.Hash())
}

// Contains reports whether url is selected.
func (s *Selection) Contains(url yzurl.URL) bool {
	_, ok := s.urls[url.Hash()]
	return ok
}

// Clear empties the selection.
func (s *Selection) Clear() { s.urls = make(map[uint64]yzurl.URL) }

// Len reports the number of selected entries.
func (s *Selection) Len() int { return len(s.urls) }

// All returns the selected URLs in no particular order.
func (s *Selection) All() []yzurl.URL {
	out := make([]yzurl.URL, 0, len(s.urls))
	for _, u := range s.urls {
		out = append(out, u)
	}
	return out
}

// nests reports whether b is a (strict) descendant of a.
func nests(a, b yzurl.URL) bool {
	if !a.Scheme().SameKind(b.Scheme()) {
		return false
	}
	if a.Loc() == b.Loc() {
		return false
	}
	prefix := a.Loc()
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(b.Loc(), prefix)
}
