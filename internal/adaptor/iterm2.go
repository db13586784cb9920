package adaptor

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/jpeg"
)

// iterm2Protocol implements the iTerm2 inline image protocol (OSC 1337),
// also used by WezTerm/VS Code/Tabby/Hyper/Rio/Warp per spec.md §4.7's
// protocol-preference table.
type iterm2Protocol struct {
	cache *diskCache
}

func (p *iterm2Protocol) Show(_ context.Context, path string, max Rect) (Rect, error) {
	img, w, h, err := downscale(path, max)
	if err != nil {
		return Rect{}, err
	}
	if err := p.cache.Precache(path, 0, img); err != nil {
		return Rect{}, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return Rect{}, err
	}
	enc := base64.StdEncoding.EncodeToString(buf.Bytes())

	// Bit-exact wire format from spec.md §6.
	seq := fmt.Sprintf("\x1b]1337;File=inline=1;size=%d;width=%dpx;height=%dpx;doNotMoveCursor=1:%s\x07",
		buf.Len(), w, h, enc)
	if err := writeSequence(seq); err != nil {
		return Rect{}, err
	}
	return Rect{X: max.X, Y: max.Y, W: max.W, H: max.H}, nil
}

func (p *iterm2Protocol) Hide() error {
	// iTerm2 inline images are not addressable for deletion; the caller
	// overwrites the occupied cells with spaces instead.
	return nil
}

func (p *iterm2Protocol) Erase(rect Rect) error {
	blank := ""
	for y := 0; y < rect.H; y++ {
		blank += fmt.Sprintf("\x1b[%d;%dH", rect.Y+y+1, rect.X+1)
		for x := 0; x < rect.W; x++ {
			blank += " "
		}
	}
	return writeSequence(blank)
}
