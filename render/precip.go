package render

const (
	// PrecipitationInterior is the inner width of the precipitation bar.
	PrecipitationInterior = 600.0
	// PrecipitationScale is the bar length per millimetre.
	PrecipitationScale = 50.0
)

// BarWidth is the filled width for precip millimetres, clamped to the
// interior width.
func BarWidth(precip, interior, scale float64) float64 {
	w := precip * scale
	if w <= 0 {
		return 0
	}
	return min(w, interior)
}
