package icons

import (
	"fmt"
	"image"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
)

func loadFont(path string) (*truetype.Font, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return f, nil
}

// renderRune draws r centred in a size×size square. ok is false when the
// font has no glyph for r.
func renderRune(f *truetype.Font, r rune, size int) (img *image.Gray, ok bool) {
	if f.Index(r) == 0 {
		return nil, false
	}
	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: float64(size) * 0.7}))
	dc.DrawStringAnchored(string(r), float64(size)/2, float64(size)/2, 0.5, 0.5)
	return toGray(dc.Image()), true
}
