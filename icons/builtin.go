package icons

import (
	"image"
	"math"

	"github.com/fogleman/gg"
)

// Builtin draws glyph as black strokes on white. It needs no resources and
// cannot fail.
func Builtin(glyph Glyph, size int) *image.Gray {
	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	s := float64(size)
	dc.SetLineWidth(math.Max(1, s/20))
	dc.SetLineCapRound()

	switch glyph {
	case GlyphSun:
		drawSun(dc, s*0.5, s*0.5, s*0.2)
	case GlyphMoon:
		drawMoon(dc, s*0.5, s*0.5, s*0.3)
	case GlyphFewCloudsDay:
		drawSun(dc, s*0.36, s*0.36, s*0.14)
		drawCloud(dc, s*0.58, s*0.66, s*0.6)
	case GlyphFewCloudsNight:
		drawMoon(dc, s*0.36, s*0.34, s*0.18)
		drawCloud(dc, s*0.58, s*0.66, s*0.6)
	case GlyphCloud:
		drawCloud(dc, s*0.5, s*0.58, s*0.8)
	case GlyphClouds:
		drawCloud(dc, s*0.6, s*0.42, s*0.6)
		drawCloud(dc, s*0.44, s*0.64, s*0.7)
	case GlyphShowers:
		drawCloud(dc, s*0.5, s*0.42, s*0.8)
		drawDrops(dc, s, 3, s*0.1)
	case GlyphRain:
		drawCloud(dc, s*0.5, s*0.42, s*0.8)
		drawDrops(dc, s, 4, s*0.2)
	case GlyphThunder:
		drawCloud(dc, s*0.5, s*0.42, s*0.8)
		drawBolt(dc, s)
	case GlyphSnow:
		drawCloud(dc, s*0.5, s*0.42, s*0.8)
		drawFlakes(dc, s)
	case GlyphMist:
		drawMist(dc, s)
	default:
		drawUnknown(dc, s)
	}
	return toGray(dc.Image())
}

func drawSun(dc *gg.Context, cx, cy, r float64) {
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		dc.DrawLine(cx+math.Cos(a)*r*1.4, cy+math.Sin(a)*r*1.4, cx+math.Cos(a)*r*1.9, cy+math.Sin(a)*r*1.9)
	}
	dc.Stroke()
}

func drawMoon(dc *gg.Context, cx, cy, r float64) {
	dc.DrawCircle(cx, cy, r)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(cx+r*0.45, cy-r*0.3, r*0.85)
	dc.Fill()
	dc.SetRGB(0, 0, 0)
}

// drawCloud paints an outlined cloud of width w centred on cx, with its base
// at cy plus a quarter of w.
func drawCloud(dc *gg.Context, cx, cy, w float64) {
	shape := func(inset float64) {
		dc.DrawCircle(cx-w*0.22, cy, w*0.2-inset)
		dc.DrawCircle(cx+w*0.02, cy-w*0.1, w*0.26-inset)
		dc.DrawCircle(cx+w*0.26, cy+w*0.02, w*0.18-inset)
		dc.DrawRoundedRectangle(cx-w*0.42+inset, cy, w*0.86-2*inset, w*0.2-inset, w*0.1-inset)
		dc.Fill()
	}
	inset := math.Max(1, w*0.06)

	dc.SetRGB(0, 0, 0)
	shape(0)
	dc.SetRGB(1, 1, 1)
	shape(inset)
	dc.SetRGB(0, 0, 0)
}

func drawDrops(dc *gg.Context, s float64, count int, length float64) {
	for i := 0; i < count; i++ {
		x := s*0.3 + float64(i)*s*0.4/float64(max(1, count-1))
		dc.DrawLine(x, s*0.72, x-length*0.35, s*0.72+length)
	}
	dc.Stroke()
}

func drawBolt(dc *gg.Context, s float64) {
	dc.MoveTo(s*0.54, s*0.64)
	dc.LineTo(s*0.42, s*0.82)
	dc.LineTo(s*0.52, s*0.82)
	dc.LineTo(s*0.44, s*0.97)
	dc.LineTo(s*0.62, s*0.76)
	dc.LineTo(s*0.52, s*0.76)
	dc.LineTo(s*0.6, s*0.64)
	dc.ClosePath()
	dc.Fill()
}

func drawFlakes(dc *gg.Context, s float64) {
	r := s * 0.05
	for _, x := range []float64{0.32, 0.5, 0.68} {
		cx, cy := s*x, s*0.82
		for i := 0; i < 3; i++ {
			a := float64(i) * math.Pi / 3
			dc.DrawLine(cx-math.Cos(a)*r, cy-math.Sin(a)*r, cx+math.Cos(a)*r, cy+math.Sin(a)*r)
		}
	}
	dc.Stroke()
}

func drawMist(dc *gg.Context, s float64) {
	for i, y := range []float64{0.3, 0.44, 0.58, 0.72} {
		offset := 0.0
		if i%2 == 1 {
			offset = s * 0.08
		}
		dc.DrawLine(s*0.18+offset, s*y, s*0.82-offset, s*y)
	}
	dc.Stroke()
}

func drawUnknown(dc *gg.Context, s float64) {
	dc.SetDash(s/16, s/16)
	dc.DrawCircle(s*0.5, s*0.5, s*0.3)
	dc.Stroke()
	dc.SetDash()
	dc.DrawLine(s*0.38, s*0.5, s*0.62, s*0.5)
	dc.Stroke()
}
