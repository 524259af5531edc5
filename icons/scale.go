package icons

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Scale resizes src to size×size grayscale, flattening transparency onto
// white. A darken factor below 1 deepens the strokes, which survive e-ink
// dithering better.
func Scale(src image.Image, size int, darken float64) *image.Gray {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.BiLinear.Scale(canvas, canvas.Rect, src, src.Bounds(), draw.Over, nil)

	gray := toGray(canvas)
	if darken > 0 && darken != 1 {
		for i, v := range gray.Pix {
			gray.Pix[i] = uint8(min(255, float64(v)*darken))
		}
	}
	return gray
}

// Decode reads a PNG and scales it with Scale.
func Decode(r io.Reader, size int, darken float64) (*image.Gray, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}
	return Scale(src, size, darken), nil
}

func toGray(src image.Image) *image.Gray {
	if gray, ok := src.(*image.Gray); ok {
		return gray
	}
	bounds := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return gray
}
