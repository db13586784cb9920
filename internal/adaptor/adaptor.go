// Package adaptor implements the terminal image adaptor described in
// spec.md §4.7: emulator capability probing, an ordered per-emulator
// protocol preference list, and the common show/hide/erase contract each
// protocol (Kitty, iTerm2 inline, Sixel, tmux passthrough) implements.
//
// It is grounded on the teacher's internal/tty package for the
// cursor-save/restore-around-raw-writes idiom and internal/adapter/cache
// for the generic metadata-invalidated LRU cache shape, adapted here from
// an in-memory struct cache to a disk-backed JPEG cache keyed by path hash
// (original_source's adaptor/src/image.rs precache behavior).
package adaptor

import (
	"context"
	"fmt"
	"image"
	"os"
)

// Rect is a terminal cell rectangle: (x, y) is the top-left cell, w/h are
// measured in cells. Protocols translate this to pixels using the
// emulator's cell-to-pixel ratio before encoding.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Bottom is the row just past the rectangle's last row.
func (r Rect) Bottom() int { return r.Y + r.H }

// Right is the column just past the rectangle's last column.
func (r Rect) Right() int { return r.X + r.W }

// Protocol is the common contract every image backend implements, per
// spec.md §4.7: "show(path, target_rect) ... hide() ... erase(rect)".
type Protocol interface {
	// Show downscales and encodes the image at path to fit within max,
	// writes the encoded frame, and returns the rectangle it actually
	// occupies (which may be smaller than max, preserving aspect ratio).
	Show(ctx context.Context, path string, max Rect) (Rect, error)
	// Hide erases whatever this protocol last Show-ed, if anything.
	Hide() error
	// Erase overwrites rect with blank cells, used when a popup collides
	// with the image plane.
	Erase(rect Rect) error
}

// Kind names a concrete protocol implementation for logging and the
// protocol-preference table.
type Kind uint8

const (
	Kgp Kind = iota // Kitty graphics protocol
	KgpOld
	Iip // iTerm2 inline image protocol (OSC 1337)
	SixelKind
)

func (k Kind) String() string {
	switch k {
	case Kgp:
		return "kitty"
	case KgpOld:
		return "kitty-old"
	case Iip:
		return "iterm2"
	case SixelKind:
		return "sixel"
	default:
		return "unknown"
	}
}

// Adaptor dispatches Show/Hide/Erase to the first working protocol from
// its ordered preference list, caching the winner once one succeeds so
// subsequent frames skip the fallback chain. It also tracks the currently
// shown rectangle so Erase can distinguish cells an overlay actually needs
// to blank from ones the image plane still owns (spec.md §4.7: "the
// renderer tracks collisions per frame; overlapping cells set the
// terminal buffer's skip bit").
type Adaptor struct {
	protocols []protoEntry
	active    int // index into protocols of the last protocol that worked, or -1

	shown    Rect
	hasShown bool
}

type protoEntry struct {
	kind Kind
	impl Protocol
}

// New builds an Adaptor trying protocols in kinds order, resolving each to
// a concrete Protocol implementation via newProtocol. Unknown kinds are
// skipped rather than erroring, so a partially-supported build (e.g. no
// cgo sixel encoder available) degrades gracefully.
func New(kinds []Kind, cacheDir string) *Adaptor {
	a := &Adaptor{active: -1}
	cache := newDiskCache(cacheDir)
	for _, k := range kinds {
		if impl := newProtocol(k, cache); impl != nil {
			a.protocols = append(a.protocols, protoEntry{kind: k, impl: impl})
		}
	}
	return a
}

func newProtocol(k Kind, cache *diskCache) Protocol {
	switch k {
	case Kgp, KgpOld:
		return &kittyProtocol{old: k == KgpOld, cache: cache}
	case Iip:
		return &iterm2Protocol{cache: cache}
	case SixelKind:
		return &sixelProtocol{cache: cache}
	default:
		return nil
	}
}

// Show tries each protocol in preference order until one succeeds,
// remembering the winner for subsequent calls. It is an error for every
// configured protocol to fail.
func (a *Adaptor) Show(ctx context.Context, path string, max Rect) (Rect, error) {
	if a.active >= 0 {
		area, err := a.protocols[a.active].impl.Show(ctx, path, max)
		if err == nil {
			a.shown, a.hasShown = area, true
		}
		return area, err
	}

	var lastErr error
	for i, p := range a.protocols {
		area, err := p.impl.Show(ctx, path, max)
		if err != nil {
			lastErr = err
			continue
		}
		a.active = i
		a.shown, a.hasShown = area, true
		return area, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("adaptor: no usable image protocol")
	}
	return Rect{}, lastErr
}

// Hide erases the currently shown image, if any.
func (a *Adaptor) Hide() error {
	if a.active < 0 {
		return nil
	}
	a.hasShown = false
	return a.protocols[a.active].impl.Hide()
}

// Erase blanks rect. If rect overlaps the currently shown image area, the
// overlapping cells are forwarded to the active protocol's Erase so the
// terminal buffer's image pixels there are actually cleared; cells outside
// the overlap are left untouched (the "skip" bit: the image plane still
// owns them).
func (a *Adaptor) Erase(rect Rect) error {
	if a.active < 0 || !a.hasShown {
		return nil
	}
	overlap, ok := intersect(rect, a.shown)
	if !ok {
		return nil
	}
	return a.protocols[a.active].impl.Erase(overlap)
}

func intersect(a, b Rect) (Rect, bool) {
	x1, y1 := max(a.X, b.X), max(a.Y, b.Y)
	x2, y2 := min(a.Right(), b.Right()), min(a.Bottom(), b.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}, false
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, true
}

// decodeFile is a small helper shared by the protocol implementations:
// read and decode path into an image.Image using the stdlib's registered
// decoders (png/jpeg/gif are registered by image.go's blank imports).
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
