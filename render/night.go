package render

import (
	"image"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Invert replaces every pixel v with 255-v. Applying it twice restores the
// original image.
func Invert(img *image.Gray) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):img.PixOffset(bounds.Max.X, y)]
		for i, v := range row {
			row[i] = 255 - v
		}
	}
}

// NightDetector decides whether a moment counts as night for the display.
type NightDetector interface {
	IsNightAt(t time.Time) bool
}

// NightWindow treats every hour outside [DayStart, DayEnd] as night.
type NightWindow struct {
	DayStart int
	DayEnd   int
}

// DefaultNightWindow is daytime from 06:00 until 20:59.
var DefaultNightWindow = NightWindow{DayStart: 6, DayEnd: 20}

func (w NightWindow) IsNight(hour int) bool {
	return hour < w.DayStart || hour > w.DayEnd
}

func (w NightWindow) IsNightAt(t time.Time) bool {
	return w.IsNight(t.Hour())
}

// SunWindow treats the time between sunset and sunrise at a location as night.
type SunWindow struct {
	Lat float64
	Lon float64
}

func (w SunWindow) IsNightAt(t time.Time) bool {
	rise, set := sunrise.SunriseSunset(w.Lat, w.Lon, t.Year(), t.Month(), t.Day())
	if rise.IsZero() || set.IsZero() {
		// no sunrise or sunset on polar days and nights
		return DefaultNightWindow.IsNightAt(t)
	}
	return t.Before(rise) || t.After(set)
}

// NeverNight disables inversion.
type NeverNight struct{}

func (NeverNight) IsNightAt(time.Time) bool {
	return false
}
