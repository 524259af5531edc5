package render

import (
	"github.com/fogleman/gg"

	"github.com/stuartleeks/home-dash/weather-eink/data"
)

// Rect is an axis-aligned area on the canvas.
type Rect struct {
	X, Y, W, H float64
}

// GraphPoints maps the temperatures of series linearly into r: the first
// sample sits on the left edge, the last on the right edge, the lowest
// temperature on the bottom edge and the highest on the top edge. A flat
// series is drawn along the bottom edge.
func GraphPoints(series data.ForecastSeries, r Rect) []gg.Point {
	if len(series) == 0 {
		return nil
	}
	lo, hi := series.TemperatureRange()
	span := hi - lo
	if span == 0 {
		span = 1
	}
	step := 0.0
	if len(series) > 1 {
		step = r.W / float64(len(series)-1)
	}

	points := make([]gg.Point, len(series))
	for i, sample := range series {
		points[i] = gg.Point{
			X: r.X + float64(i)*step,
			Y: r.Y + r.H - (sample.Temperature-lo)/span*r.H,
		}
	}
	return points
}
