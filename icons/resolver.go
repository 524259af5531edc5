// Package icons turns OpenWeatherMap icon codes into small grayscale bitmaps.
// Failing to produce an icon is never fatal; callers render without it.
package icons

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"

	"github.com/stuartleeks/home-dash/weather-eink/logger"
)

// Source selects where icon pixels come from.
type Source string

const (
	SourceFont    Source = "font"
	SourceRemote  Source = "remote"
	SourceBuiltin Source = "builtin"
	SourceNone    Source = "none"
)

var (
	ErrDisabled    = errors.New("icons are disabled")
	ErrInvalidSize = errors.New("icon size must be positive")
)

// IconError explains why no icon was produced for a code.
type IconError struct {
	Code   string
	Source Source
	Err    error
}

func (e *IconError) Error() string {
	return fmt.Sprintf("icon %q from %s source: %s", e.Code, e.Source, e.Err)
}

func (e *IconError) Unwrap() error {
	return e.Err
}

type Options struct {
	Source      Source
	FontPath    string
	URLTemplate string
	// Rate limits remote fetches, in requests per second.
	Rate    float64
	Timeout time.Duration
	// HTTPClient overrides the client used for remote fetches.
	HTTPClient *http.Client
}

// Resolver resolves icon codes for one render run. Results, including
// failures, are remembered for the lifetime of the Resolver only.
type Resolver struct {
	logger *logger.Logger
	source Source
	font   *truetype.Font
	remote *remoteSource
	memo   *memo
}

func New(log *logger.Logger, opts Options) *Resolver {
	r := &Resolver{
		logger: log,
		source: opts.Source,
		memo:   newMemo(),
	}
	if r.source == "" {
		r.source = SourceBuiltin
	}

	switch r.source {
	case SourceFont:
		f, err := loadFont(opts.FontPath)
		if err != nil {
			log.Warn("icon font unavailable, using built-in glyphs", "path", opts.FontPath, logger.Err(err))
			break
		}
		r.font = f
	case SourceRemote:
		client := opts.HTTPClient
		if client == nil {
			timeout := opts.Timeout
			if timeout <= 0 {
				timeout = 10 * time.Second
			}
			client = &http.Client{Timeout: timeout}
		}
		r.remote = newRemoteSource(client, opts.URLTemplate, opts.Rate)
	}
	return r
}

// Resolve returns a size×size grayscale icon for code, or nil together with
// an *IconError when none can be produced.
func (r *Resolver) Resolve(ctx context.Context, code string, size int) (image.Image, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	key := memoKey{code: code, size: size}
	if entry, ok := r.memo.Get(key); ok {
		return entry.img, entry.err
	}

	img, err := r.resolve(ctx, code, size)
	if err != nil {
		err = &IconError{Code: code, Source: r.source, Err: err}
		img = nil
	}
	r.memo.Set(key, memoEntry{img: img, err: err})
	return img, err
}

func (r *Resolver) resolve(ctx context.Context, code string, size int) (image.Image, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	glyph := GlyphFor(code)

	switch r.source {
	case SourceNone:
		return nil, ErrDisabled
	case SourceFont:
		if r.font != nil {
			if img, ok := renderRune(r.font, glyph.Rune(), size); ok {
				return img, nil
			}
			r.logger.Debug("icon font lacks glyph, using built-in", "code", code, "glyph", glyph.String())
		}
	case SourceRemote:
		if _, known := Glyphs[code]; known {
			img, err := r.remote.fetch(ctx, code, size)
			if err != nil {
				return nil, err
			}
			return img, nil
		}
	}
	return Builtin(glyph, size), nil
}
