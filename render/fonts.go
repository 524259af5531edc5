package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/stuartleeks/home-dash/weather-eink/logger"
)

type faceKey struct {
	bold bool
	size float64
}

// Fonts hands out font faces by weight and point size. Faces are created on
// first use and kept for the lifetime of the Fonts value.
type Fonts struct {
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[faceKey]font.Face
}

// LoadFonts parses the TrueType files at regularPath and boldPath. A file that
// cannot be read or parsed is replaced by the embedded Go font of the same
// weight, so LoadFonts always returns usable fonts.
func LoadFonts(log *logger.Logger, regularPath, boldPath string) *Fonts {
	return &Fonts{
		regular: loadFontOrFallback(log, regularPath, goregular.TTF),
		bold:    loadFontOrFallback(log, boldPath, gobold.TTF),
		faces:   make(map[faceKey]font.Face),
	}
}

func loadFontOrFallback(log *logger.Logger, path string, fallback []byte) *truetype.Font {
	if path != "" {
		f, err := parseFontFile(path)
		if err == nil {
			return f
		}
		log.Warn("font unavailable, using embedded fallback", "path", path, logger.Err(err))
	}
	f, err := truetype.Parse(fallback)
	if err != nil {
		// the embedded fonts are known good
		panic(err)
	}
	return f
}

func parseFontFile(path string) (*truetype.Font, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return f, nil
}

// Face returns the face for the given weight and size in points.
func (f *Fonts) Face(bold bool, size float64) font.Face {
	key := faceKey{bold: bold, size: size}
	if face, ok := f.faces[key]; ok {
		return face
	}
	ttf := f.regular
	if bold {
		ttf = f.bold
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: size})
	f.faces[key] = face
	return face
}
