package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"time"

	"code.cloudfoundry.org/clock"
	"golang.org/x/text/language"

	"github.com/stuartleeks/home-dash/weather-eink/config"
	"github.com/stuartleeks/home-dash/weather-eink/data"
	"github.com/stuartleeks/home-dash/weather-eink/icons"
	"github.com/stuartleeks/home-dash/weather-eink/logger"
	"github.com/stuartleeks/home-dash/weather-eink/owm"
	"github.com/stuartleeks/home-dash/weather-eink/render"
	"github.com/stuartleeks/home-dash/weather-eink/telemetry"
)

// GeneratorOptions wires the collaborators of a Generator. Only Config is
// required.
type GeneratorOptions struct {
	Config  *config.Config
	Clock   clock.Clock
	Tracker telemetry.Tracker
	// Source replaces the API client or input directory named by Config.
	Source owm.Source
	// Zone is used when no payload names a time zone.
	Zone *time.Location
}

// Generator performs one fetch, render and write pass.
type Generator struct {
	logger   *logger.Logger
	config   *config.Config
	clock    clock.Clock
	tracker  telemetry.Tracker
	source   owm.Source
	zone     *time.Location
	renderer *render.Renderer
	language language.Tag
}

// Result describes the image a run produced.
type Result struct {
	Path     string
	Report   *data.Report
	Frame    *render.Frame
	Inverted bool
}

func NewGenerator(log *logger.Logger, opts GeneratorOptions) (*Generator, error) {
	conf := opts.Config
	mode, err := owm.ParseMode(conf.Mode)
	if err != nil {
		return nil, &config.ConfigError{Field: "mode", Err: err}
	}

	g := &Generator{
		logger:   log,
		config:   conf,
		clock:    opts.Clock,
		tracker:  opts.Tracker,
		source:   opts.Source,
		zone:     opts.Zone,
		language: parseLanguage(conf.Locale),
	}
	if g.clock == nil {
		g.clock = clock.NewClock()
	}
	if g.tracker == nil {
		g.tracker = telemetry.New(log, telemetry.Options{})
	}
	if g.zone == nil {
		g.zone = time.Local
	}
	if g.source == nil {
		g.source = newSource(log, conf, mode, g.language)
	}

	resolver := icons.New(log, icons.Options{
		Source:      icons.Source(conf.Icons.Source),
		FontPath:    conf.Fonts.Icons,
		URLTemplate: conf.Icons.URL,
		Rate:        conf.Icons.Rate,
		Timeout:     conf.Timeout,
	})
	g.renderer = render.New(log, render.Options{
		Fonts: render.LoadFonts(log, conf.Fonts.Regular, conf.Fonts.Bold),
		Icons: resolver,
	})
	return g, nil
}

func newSource(log *logger.Logger, conf *config.Config, mode owm.Mode, lang language.Tag) owm.Source {
	if conf.InputDir != "" {
		log.Debug("reading payloads from directory", "dir", conf.InputDir)
		return &owm.FileSource{Dir: conf.InputDir, Mode: mode}
	}
	base, _ := lang.Base()
	return owm.New(log, owm.Options{
		BaseURL:  conf.Endpoint,
		APIKey:   conf.APIKey,
		Units:    conf.Units,
		Language: base.String(),
		Mode:     mode,
		Timeout:  conf.Timeout,
		Location: owm.Location{
			City:           conf.Location.City,
			Country:        conf.Location.Country,
			Lat:            conf.Location.Lat,
			Lon:            conf.Location.Lon,
			UseCoordinates: conf.UseCoordinates(),
		},
	})
}

func parseLanguage(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Run fetches the payloads, paints and, at night, inverts the canvas, and
// writes the PNG. Nothing is written unless every step before it succeeded.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	start := g.clock.Now()

	current, err := g.source.Current(ctx)
	if err != nil {
		return nil, err
	}
	forecast, err := g.source.Forecast(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		g.logger.Warn("forecast unavailable, rendering current conditions only", logger.Err(err))
		forecast = nil
	}

	report, err := data.BuildReport(current, forecast, data.ReportOptions{
		Normalizer:       data.NewNormalizer(g.language),
		Days:             g.config.Days,
		Selection:        data.ParseSelection(g.config.Selection),
		FallbackLocation: g.config.LocationLabel(),
		FallbackZone:     g.zone,
		Now:              start,
	})
	if err != nil {
		return nil, err
	}
	if report.SkippedSamples > 0 {
		g.logger.Warn("skipped unusable forecast samples", "count", report.SkippedSamples)
	}

	frame, err := g.renderer.Render(ctx, render.Input{
		Report:   report,
		Now:      start,
		Units:    g.config.Units,
		Language: g.config.Locale,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render: %w", err)
	}

	inverted := g.nightDetector(report).IsNightAt(start.In(report.TimeZone))
	if inverted {
		render.Invert(frame.Canvas)
	}

	err = data.WriteFileAtomic(g.config.Output, func(w io.Writer) error {
		return png.Encode(w, frame.Canvas)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	duration := g.clock.Since(start)
	sections := make([]string, len(frame.Sections))
	for i, s := range frame.Sections {
		sections[i] = string(s)
	}
	g.tracker.TrackRender(telemetry.RenderEvent{
		Location:       report.Location,
		Mode:           g.config.Mode,
		Inverted:       inverted,
		Sections:       sections,
		SkippedSamples: report.SkippedSamples,
		Duration:       duration,
	})
	g.logger.Info("wrote weather image", "path", g.config.Output, "location", report.Location,
		"inverted", inverted, "duration", duration)

	return &Result{Path: g.config.Output, Report: report, Frame: frame, Inverted: inverted}, nil
}

func (g *Generator) nightDetector(report *data.Report) render.NightDetector {
	night := g.config.Night
	switch night.Mode {
	case "off":
		return render.NeverNight{}
	case "sun":
		if g.config.UseCoordinates() {
			return render.SunWindow{Lat: g.config.Location.Lat, Lon: g.config.Location.Lon}
		}
		if c := report.Coordinate; c != nil {
			return render.SunWindow{Lat: c.Lat, Lon: c.Lon}
		}
		g.logger.Warn("no coordinates for sun based night mode, using the hour window")
	}
	return render.NightWindow{DayStart: night.DayStart, DayEnd: night.DayEnd}
}
