package adaptor

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// kittyChunkSize is the max base64 payload length per escape sequence
// chunk, per spec.md §6's bit-exact wire format: "chunked at 4096 base64
// chars".
const kittyChunkSize = 4096

// kittyProtocol implements the Kitty graphics protocol (and, when old is
// set, the older Konsole-compatible variant which shares the same wire
// format per spec.md §4.7's protocol-preference table).
type kittyProtocol struct {
	old   bool
	cache *diskCache
}

func (k *kittyProtocol) Show(_ context.Context, path string, max Rect) (Rect, error) {
	img, w, h, err := downscale(path, max)
	if err != nil {
		return Rect{}, err
	}
	if err := k.cache.Precache(path, 0, img); err != nil {
		return Rect{}, err
	}

	raw, err := rgbaBytes(img)
	if err != nil {
		return Rect{}, err
	}
	enc := base64.StdEncoding.EncodeToString(raw)

	if err := writeKittyChunks(w, h, enc); err != nil {
		return Rect{}, err
	}

	cellW := max.W
	cellH := max.H
	return Rect{X: max.X, Y: max.Y, W: cellW, H: cellH}, nil
}

// writeKittyChunks assembles the bit-exact sequence from spec.md §6:
// `\x1b_Ga=T,f=<24|32>,s=<w>,v=<h>,m=<0|1>;<base64 chunk>\x1b\\`, repeated
// per 4096-char chunk, the first chunk alone carrying the full header.
func writeKittyChunks(w, h int, enc string) error {
	var b strings.Builder
	for i := 0; i < len(enc); i += kittyChunkSize {
		end := i + kittyChunkSize
		if end > len(enc) {
			end = len(enc)
		}
		more := 0
		if end < len(enc) {
			more = 1
		}
		if i == 0 {
			fmt.Fprintf(&b, "\x1b_Ga=T,f=32,s=%d,v=%d,m=%d;%s\x1b\\", w, h, more, enc[i:end])
		} else {
			fmt.Fprintf(&b, "\x1b_Gm=%d;%s\x1b\\", more, enc[i:end])
		}
	}
	return writeSequence(b.String())
}

func (k *kittyProtocol) Hide() error {
	return writeSequence("\x1b_Ga=d\x1b\\")
}

func (k *kittyProtocol) Erase(rect Rect) error {
	return writeSequence("\x1b_Ga=d\x1b\\")
}

// rgbaBytes flattens img into the tightly packed RGBA8888 stream the
// Kitty protocol's f=32 format expects.
func rgbaBytes(img image.Image) ([]byte, error) {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out = append(out, byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8))
		}
	}
	return out, nil
}
