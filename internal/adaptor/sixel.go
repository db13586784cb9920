package adaptor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mattn/go-sixel"
)

// sixelProtocol implements the Sixel image protocol, the fallback for
// Foot/BlackBox/Microsoft Terminal per spec.md §4.7's protocol-preference
// table, and the second choice (after iTerm2 inline) for the iTerm2-family
// emulators.
type sixelProtocol struct {
	cache *diskCache
}

func (p *sixelProtocol) Show(_ context.Context, path string, max Rect) (Rect, error) {
	img, w, h, err := downscale(path, max)
	if err != nil {
		return Rect{}, err
	}
	if err := p.cache.Precache(path, 0, img); err != nil {
		return Rect{}, err
	}

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	if err := enc.Encode(img); err != nil {
		return Rect{}, err
	}
	if err := writeSequence(buf.String()); err != nil {
		return Rect{}, err
	}
	_ = w
	_ = h
	return Rect{X: max.X, Y: max.Y, W: max.W, H: max.H}, nil
}

func (p *sixelProtocol) Hide() error {
	return nil
}

func (p *sixelProtocol) Erase(rect Rect) error {
	blank := ""
	for y := 0; y < rect.H; y++ {
		blank += fmt.Sprintf("\x1b[%d;%dH", rect.Y+y+1, rect.X+1)
		for x := 0; x < rect.W; x++ {
			blank += " "
		}
	}
	return writeSequence(blank)
}
