// Package yzurl implements the composite (scheme, loc) file identifier
// described in spec.md §3: a totally ordered, hashable value with
// covariant equality (scheme kind + path), plus the uri/urn offset
// bookkeeping used to recover a path relative to a virtual root or a
// containing folder.
package yzurl

import (
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// URL is an immutable value: a Scheme plus a normalized slash-separated
// location, with two byte offsets into loc marking where the "uri" (path
// within the scheme's virtual root) and "urn" (path within the containing
// folder) suffixes begin.
type URL struct {
	scheme Scheme
	loc    string
	uriOff int
	urnOff int
}

// New builds a regular-scheme URL rooted at itself: both uri and urn equal
// the full location.
func New(loc string) URL {
	loc = normalize(loc)
	return URL{scheme: Scheme{Kind: Regular}, loc: loc, uriOff: 0, urnOff: 0}
}

// NewIn builds a URL under the given scheme, with the uri offset marking
// the scheme's virtual root.
func NewIn(scheme Scheme, loc string) URL {
	loc = normalize(loc)
	return URL{scheme: scheme, loc: loc, uriOff: 0, urnOff: 0}
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	return cleaned
}

// Scheme returns the URL's scheme.
func (u URL) Scheme() Scheme { return u.scheme }

// Loc returns the full normalized location.
func (u URL) Loc() string { return u.loc }

// Uri returns the path relative to the scheme's virtual root.
func (u URL) Uri() string {
	if u.uriOff >= len(u.loc) {
		return ""
	}
	return u.loc[u.uriOff:]
}

// Urn returns the path relative to the containing folder.
func (u URL) Urn() string {
	if u.urnOff >= len(u.loc) {
		return ""
	}
	return strings.TrimPrefix(u.loc[u.urnOff:], "/")
}

// Name returns the final path segment, or "" for the root.
func (u URL) Name() string {
	if u.loc == "/" {
		return ""
	}
	return path.Base(u.loc)
}

// IsRoot reports whether this URL has no parent.
func (u URL) IsRoot() bool { return u.loc == "/" }

// Parent returns the containing directory's URL. ok is false at the root.
func (u URL) Parent() (URL, bool) {
	if u.IsRoot() {
		return URL{}, false
	}
	p := u
	p.loc = path.Dir(u.loc)
	if p.uriOff > len(p.loc) {
		p.uriOff = len(p.loc)
	}
	if p.urnOff > len(p.loc) {
		p.urnOff = len(p.loc)
	}
	return p, true
}

// Join appends name as a child path segment, preserving scheme and root
// offsets (property 3: parent(u).Join(u.Name()) == u for any non-root u).
func (u URL) Join(name string) URL {
	c := u
	c.loc = path.Join(u.loc, name)
	return c
}

// Child is an alias for Join kept for readability at call sites that mean
// "the entry named name inside this directory".
func (u URL) Child(name string) URL { return u.Join(name) }

// WithUrnRoot returns a copy of u whose urn offset is reset to the current
// loc length, i.e. "this directory is now urn-relative to itself" — used
// when a Folder adopts a URL as its own location.
func (u URL) WithUrnRoot() URL {
	c := u
	c.urnOff = len(u.loc)
	return c
}

// WithUriRoot returns a copy of u whose uri offset is reset to the current
// loc length — used when mounting a new virtual root (e.g. an archive or
// search domain).
func (u URL) WithUriRoot() URL {
	c := u
	c.uriOff = len(u.loc)
	return c
}

// Rel is the result of RelativeTo: a path relative to some base, carrying
// enough of the original URL's identity to be resolved back exactly.
type Rel struct {
	scheme Scheme
	path   string
}

// RelativeTo computes u's location relative to base's location. ok is false
// if the schemes don't match by kind or u is not inside base.
func RelativeTo(base, u URL) (Rel, bool) {
	if !base.scheme.SameKind(u.scheme) {
		return Rel{}, false
	}
	if base.loc == u.loc {
		return Rel{scheme: u.scheme, path: "."}, true
	}
	prefix := base.loc
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(u.loc, prefix) {
		return Rel{}, false
	}
	return Rel{scheme: u.scheme, path: strings.TrimPrefix(u.loc, prefix)}, true
}

// ResolveAgainst reconstructs the original URL given the base it was made
// relative to (property 3: RelativeTo(base, u) resolved against base == u,
// when both are absolute and share a scheme kind).
func (r Rel) ResolveAgainst(base URL) URL {
	out := base
	out.scheme = r.scheme
	if r.path == "." {
		return out
	}
	out.loc = path.Join(base.loc, r.path)
	return out
}

// Covariant reports whether a and b share a scheme kind (ignoring domain)
// and an identical location.
func Covariant(a, b URL) bool {
	return a.scheme.SameKind(b.scheme) && a.loc == b.loc
}

// Equal is strict equality: same scheme (kind and domain) and location.
func Equal(a, b URL) bool {
	return a.scheme == b.scheme && a.loc == b.loc
}

// Compare gives a's URL a total order against b: by scheme kind, then
// domain, then location.
func Compare(a, b URL) int {
	if a.scheme.Kind != b.scheme.Kind {
		if a.scheme.Kind < b.scheme.Kind {
			return -1
		}
		return 1
	}
	if a.scheme.Domain != b.scheme.Domain {
		return strings.Compare(a.scheme.Domain, b.scheme.Domain)
	}
	return strings.Compare(a.loc, b.loc)
}

// Hash returns a hash consistent with covariant equality: it depends on
// scheme kind and location, but not on domain.
func (u URL) Hash() uint64 {
	h := xxhash.New()
	var kb [1]byte
	kb[0] = byte(u.scheme.Kind)
	_, _ = h.Write(kb[:])
	_, _ = h.WriteString(u.loc)
	return h.Sum64()
}

func (u URL) String() string {
	if u.scheme.Kind == Regular {
		return u.loc
	}
	return u.scheme.String() + u.loc
}

// UriOffset and UrnOffset expose the raw byte offsets backing Uri/Urn, so
// a caller that needs to reconstruct an exactly equal URL (e.g. a wire
// codec) doesn't have to rediscover them by reapplying WithUriRoot/
// WithUrnRoot against a guessed root.
func (u URL) UriOffset() int { return u.uriOff }
func (u URL) UrnOffset() int { return u.urnOff }

// FromParts rebuilds a URL from its raw components. It is the inverse of
// Scheme/Loc/UriOffset/UrnOffset, used by wire codecs that flatten a URL
// into plain exported fields and need to restore it byte-for-byte.
func FromParts(scheme Scheme, loc string, uriOff, urnOff int) URL {
	return URL{scheme: scheme, loc: loc, uriOff: uriOff, urnOff: urnOff}
}
