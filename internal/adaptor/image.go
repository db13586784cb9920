package adaptor

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// MaxWidth and MaxHeight bound every downscaled preview image, per
// spec.md §4.7 ("bounded by max_width × max_height and the terminal
// cell→pixel ratio"). These mirror the original's config.PREVIEW defaults
// and are overridable by internal/config once wired.
var (
	MaxWidth  = 1200
	MaxHeight = 1200
)

// CellRatio is the terminal's cell-to-pixel ratio (width, height),
// queried once at start-up by the capability probe. It defaults to a
// common monospace cell aspect (roughly 1:2).
var CellRatio = [2]float64{1, 2}

// downscale loads path and resizes it to fit within max (a cell
// rectangle converted to pixels via CellRatio and clamped to
// MaxWidth/MaxHeight), mirroring original_source's Image::crop: only
// scale down, never up, using a Catmull-Rom filter for quality and
// falling back to nearest-neighbor only when the image is already small
// enough that no resampling is needed.
func downscale(path string, max Rect) (image.Image, int, int, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, 0, 0, err
	}

	maxW := int(float64(max.W) * CellRatio[0])
	maxH := int(float64(max.H) * CellRatio[1])
	if maxW <= 0 || maxW > MaxWidth {
		maxW = MaxWidth
	}
	if maxH <= 0 || maxH > MaxHeight {
		maxH = MaxHeight
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img, w, h, nil
	}

	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	dstW, dstH := maxInt(1, int(float64(w)*scale)), maxInt(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst, dstW, dstH, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
