// Package vfile defines File: a (URL, Cha, optional link target) value.
package vfile

import (
	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/yzurl"
)

// File pairs a location with its characteristics and, for symlinks, the
// URL it resolves to.
type File struct {
	URL    yzurl.URL
	Cha    cha.Cha
	LinkTo *yzurl.URL
}

// Hash is the URL's hash; two Files with equal URL but different Cha are
// still distinct for change-detection purposes (spec.md §3), so callers
// that need that distinction should also compare Cha.Hits.
func (f File) Hash() uint64 { return f.URL.Hash() }

// Urn is the file's path relative to its containing folder.
func (f File) Urn() string { return f.URL.Urn() }

// Name is the file's final path segment.
func (f File) Name() string { return f.URL.Name() }

// IsDir reports whether the file is a directory.
func (f File) IsDir() bool { return f.Cha.IsDir() }

// Same reports whether two files describe the same URL with equal
// characteristics (used by the folder model to decide whether an
// Upserting entry actually changed anything).
func Same(a, b File) bool {
	return yzurl.Equal(a.URL, b.URL) && a.Cha.Hits(b.Cha)
}
