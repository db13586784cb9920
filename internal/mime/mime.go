// Package mime implements the mimetype detection cache described in
// SPEC_FULL.md's domain-stack expansion: "a small magic-byte + extension
// table feeding Manager.mimetype, gating previewer dispatch". Detection
// itself is grounded on the gabriel-vasile/mimetype library (the
// magic-byte sniffer the wider example pack reaches for); the cache
// shape mirrors internal/adaptor's diskCache — a mutex-guarded map keyed
// by path, invalidated by the caller whenever a file's Cha changes.
package mime

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/yazi-go/yazi/internal/yzurl"
)

// DirMime is the sentinel mime string directories resolve to, per
// original_source's shared/src/mime.rs MIME_DIR constant.
const DirMime = "inode/directory"

// Kind groups mime strings into the coarse buckets previewer dispatch
// and icon selection care about, ported from shared/src/mime.rs's
// MimeKind enum.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindArchive
	KindImage
	KindVideo
	KindJSON
	KindPDF
	KindText
	KindOthers
)

// KindOf classifies a mime string the way MimeKind::new does.
func KindOf(s string) Kind {
	switch {
	case strings.HasPrefix(s, "text/"), strings.HasSuffix(s, "/xml"), strings.HasSuffix(s, "/javascript"):
		return KindText
	case strings.HasPrefix(s, "image/"):
		return KindImage
	case strings.HasPrefix(s, "video/"):
		return KindVideo
	case s == "inode/x-empty":
		return KindEmpty
	case s == "application/json":
		return KindJSON
	case s == "application/pdf":
		return KindPDF
	case s == "application/zip", s == "application/gzip", s == "application/x-tar",
		s == "application/x-bzip", s == "application/x-bzip2",
		s == "application/x-7z-compressed", s == "application/x-rar":
		return KindArchive
	default:
		return KindOthers
	}
}

// ShowAsImage reports whether a Kind is rendered through the image
// adaptor rather than a text previewer.
func (k Kind) ShowAsImage() bool { return k == KindImage || k == KindVideo || k == KindPDF }

// Cache is the Manager's url -> mime-string map (spec.md §3: "Manager {
// ..., mimetype: url -> mime-string, ... }"), guarded by a mutex since
// detection results stream in from scheduler worker goroutines while the
// app thread reads it on every render.
type Cache struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewCache creates an empty mimetype cache.
func NewCache() *Cache { return &Cache{m: make(map[string]string)} }

// Get returns the cached mime for url, with ok=false if it hasn't been
// detected yet — the preview pipeline's Peek step treats that as "await
// the mime fetch and re-peek" (spec.md §4.4 step 3).
func (c *Cache) Get(url yzurl.URL) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.m[url.String()]
	return s, ok
}

// Set stores a detected mime for url.
func (c *Cache) Set(url yzurl.URL, mime string) {
	c.mu.Lock()
	c.m[url.String()] = mime
	c.mu.Unlock()
}

// Forget removes url's cached mime, e.g. after the file it names is
// replaced by a different file at the same path.
func (c *Cache) Forget(url yzurl.URL) {
	c.mu.Lock()
	delete(c.m, url.String())
	c.mu.Unlock()
}

// Detect sniffs path's mimetype: directories resolve to DirMime
// immediately, empty regular files to "inode/x-empty", everything else
// goes through mimetype.DetectFile's magic-byte-plus-extension table.
func Detect(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("mime: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DirMime, nil
	}
	if info.Size() == 0 {
		return "inode/x-empty", nil
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("mime: detecting %s: %w", path, err)
	}
	return mt.String(), nil
}

// Valid reports whether s is a well-formed two-part mime string, per
// shared/src/mime.rs's MimeKind::valid allow-list of top-level types.
func Valid(s string) bool {
	if s == "inode/x-empty" {
		return true
	}
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return false
	}
	switch parts[0] {
	case "application", "audio", "example", "font", "image", "message", "model", "multipart", "text", "video", "inode":
		return true
	default:
		return false
	}
}
