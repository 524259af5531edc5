package icons

import "strings"

// Glyph identifies one pictogram, independent of where its pixels come from.
type Glyph int

const (
	GlyphUnknown Glyph = iota
	GlyphSun
	GlyphMoon
	GlyphFewCloudsDay
	GlyphFewCloudsNight
	GlyphCloud
	GlyphClouds
	GlyphShowers
	GlyphRain
	GlyphThunder
	GlyphSnow
	GlyphMist
)

// DefaultGlyph is used for every icon code missing from Glyphs.
const DefaultGlyph = GlyphUnknown

// Glyphs maps OpenWeatherMap icon codes to glyphs.
var Glyphs = map[string]Glyph{
	"01d": GlyphSun,
	"01n": GlyphMoon,
	"02d": GlyphFewCloudsDay,
	"02n": GlyphFewCloudsNight,
	"03d": GlyphCloud,
	"03n": GlyphCloud,
	"04d": GlyphClouds,
	"04n": GlyphClouds,
	"09d": GlyphShowers,
	"09n": GlyphShowers,
	"10d": GlyphRain,
	"10n": GlyphRain,
	"11d": GlyphThunder,
	"11n": GlyphThunder,
	"13d": GlyphSnow,
	"13n": GlyphSnow,
	"50d": GlyphMist,
	"50n": GlyphMist,
}

// fontRunes are the Weather Icons (erikflowers) code points per glyph.
var fontRunes = map[Glyph]rune{
	GlyphUnknown:        '\uf07b', // wi-na
	GlyphSun:            '\uf00d', // wi-day-sunny
	GlyphMoon:           '\uf02e', // wi-night-clear
	GlyphFewCloudsDay:   '\uf002', // wi-day-cloudy
	GlyphFewCloudsNight: '\uf086', // wi-night-alt-cloudy
	GlyphCloud:          '\uf041', // wi-cloud
	GlyphClouds:         '\uf013', // wi-cloudy
	GlyphShowers:        '\uf01a', // wi-showers
	GlyphRain:           '\uf019', // wi-rain
	GlyphThunder:        '\uf01e', // wi-thunderstorm
	GlyphSnow:           '\uf01b', // wi-snow
	GlyphMist:           '\uf014', // wi-fog
}

var glyphNames = map[Glyph]string{
	GlyphUnknown:        "unknown",
	GlyphSun:            "sun",
	GlyphMoon:           "moon",
	GlyphFewCloudsDay:   "few-clouds-day",
	GlyphFewCloudsNight: "few-clouds-night",
	GlyphCloud:          "cloud",
	GlyphClouds:         "clouds",
	GlyphShowers:        "showers",
	GlyphRain:           "rain",
	GlyphThunder:        "thunder",
	GlyphSnow:           "snow",
	GlyphMist:           "mist",
}

func (g Glyph) String() string {
	if name, ok := glyphNames[g]; ok {
		return name
	}
	return glyphNames[DefaultGlyph]
}

// Rune returns the icon font code point of g.
func (g Glyph) Rune() rune {
	if r, ok := fontRunes[g]; ok {
		return r
	}
	return fontRunes[DefaultGlyph]
}

// GlyphFor resolves an icon code; unknown codes yield DefaultGlyph.
func GlyphFor(code string) Glyph {
	if glyph, ok := Glyphs[strings.ToLower(strings.TrimSpace(code))]; ok {
		return glyph
	}
	return DefaultGlyph
}
