package render

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
)

func drawStringCentered(dc *gg.Context, text string, x, y float64) {
	w, h := dc.MeasureString(text)
	dc.DrawString(text, x-w/2, y+h)
}

func drawStringLeft(dc *gg.Context, text string, x, y float64) {
	_, h := dc.MeasureString(text)
	dc.DrawString(text, x, y+h)
}

func drawStringRight(dc *gg.Context, text string, x, y float64) {
	w, h := dc.MeasureString(text)
	dc.DrawString(text, x-w, y+h)
}

// fitString shortens text with a trailing ellipsis until it is at most width
// wide in the current face.
func fitString(dc *gg.Context, text string, width float64) string {
	if w, _ := dc.MeasureString(text); w <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return ""
}

type unitLabels struct {
	temperature string
	speed       string
}

func unitsFor(units string) unitLabels {
	switch units {
	case "imperial":
		return unitLabels{temperature: "°F", speed: "mph"}
	case "standard":
		return unitLabels{temperature: "K", speed: "m/s"}
	default:
		return unitLabels{temperature: "°C", speed: "m/s"}
	}
}

// FormatTemperature rounds t to the nearest degree, e.g. "20°C".
func FormatTemperature(t float64, units string) string {
	return fmt.Sprintf("%d%s", roundDegrees(t), unitsFor(units).temperature)
}

func formatRange(lo, hi float64) string {
	return fmt.Sprintf("%d°–%d°", roundDegrees(lo), roundDegrees(hi))
}

func roundDegrees(t float64) int {
	return int(math.Round(t))
}
