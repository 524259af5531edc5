// Package render paints a weather report onto a fixed-size grayscale canvas
// for an e-ink panel.
package render

import (
	"context"
	"errors"
	"image"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/wneessen/go-moonphase"
	"golang.org/x/image/draw"

	"github.com/stuartleeks/home-dash/weather-eink/data"
	"github.com/stuartleeks/home-dash/weather-eink/icons"
	"github.com/stuartleeks/home-dash/weather-eink/logger"
)

const (
	DefaultWidth        = 758
	DefaultHeight       = 1024
	DefaultGraphWindow  = 24 * time.Hour
	DefaultForecastRows = 5
)

// Layout metrics, in pixels and points.
const (
	margin           = 50.0
	titleTop         = 20.0
	titleSize        = 40.0
	titleAdvance     = 56.0
	dateSize         = 24.0
	dateAdvance      = 36.0
	ruleOffset       = 6.0
	ruleAdvance      = 18.0
	temperatureSize  = 100.0
	currentIconX     = 470.0
	currentIconSize  = 150
	currentAdvance   = 160.0
	descriptionSize  = 36.0
	descriptionStep  = 46.0
	detailSize       = 24.0
	detailStep       = 34.0
	sectionGap       = 10.0
	precipBarHeight  = 30.0
	precipAdvance    = 46.0
	captionSize      = 20.0
	captionStep      = 28.0
	graphHeight      = 120.0
	graphAdvance     = 136.0
	rowHeight        = 44.0
	rowSize          = 24.0
	rowIconSize      = 36
	rowIconX         = 130.0
	rowRangeX        = 180.0
	rowDescriptionX  = 330.0
	footerFromBottom = 60.0
	footerSize       = 20.0
)

// Section names a part of the layout that was painted.
type Section string

const (
	SectionTitle         Section = "title"
	SectionDate          Section = "date"
	SectionCurrent       Section = "current"
	SectionPrecipitation Section = "precipitation"
	SectionGraph         Section = "graph"
	SectionForecast      Section = "forecast"
	SectionFooter        Section = "footer"
)

// IconResolver produces size×size icons for OpenWeatherMap icon codes.
type IconResolver interface {
	Resolve(ctx context.Context, code string, size int) (image.Image, error)
}

type Options struct {
	Width  int
	Height int
	Fonts  *Fonts
	// Icons is optional; without it no icons are drawn.
	Icons        IconResolver
	GraphWindow  time.Duration
	ForecastRows int
}

// Input is one render request.
type Input struct {
	Report   *data.Report
	Now      time.Time
	Units    string
	Language string
}

// Frame is the painted canvas plus a record of what went onto it.
type Frame struct {
	Canvas   *image.Gray
	Texts    []string
	Sections []Section
	// Icons lists the icon codes that were drawn.
	Icons []string
}

func (f *Frame) Has(section Section) bool {
	for _, s := range f.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// HasText reports whether text was drawn verbatim.
func (f *Frame) HasText(text string) bool {
	for _, t := range f.Texts {
		if t == text {
			return true
		}
	}
	return false
}

type Renderer struct {
	logger *logger.Logger
	opts   Options
}

func New(log *logger.Logger, opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Fonts == nil {
		opts.Fonts = LoadFonts(log, "", "")
	}
	if opts.GraphWindow <= 0 {
		opts.GraphWindow = DefaultGraphWindow
	}
	if opts.ForecastRows <= 0 {
		opts.ForecastRows = DefaultForecastRows
	}
	return &Renderer{logger: log, opts: opts}
}

// Render paints in.Report top to bottom. Sections without data are left out;
// icon failures are logged and the icon is skipped.
func (r *Renderer) Render(ctx context.Context, in Input) (*Frame, error) {
	if in.Report == nil {
		return nil, errors.New("render: no report")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	zone := in.Report.TimeZone
	if zone == nil {
		zone = time.Local
	}

	p := &painter{
		ctx:    ctx,
		logger: r.logger,
		opts:   r.opts,
		dc:     gg.NewContext(r.opts.Width, r.opts.Height),
		loc:    newLocalizer(in.Language),
		units:  in.Units,
		now:    in.Now.In(zone),
		zone:   zone,
		frame:  &Frame{},
	}
	p.dc.SetRGB(1, 1, 1)
	p.dc.Clear()
	p.dc.SetRGB(0, 0, 0)

	report := in.Report
	p.drawHeading(report.Location)
	p.drawCurrent(report.Current)
	p.drawPrecipitation(report.Current.Precipitation)
	p.drawGraph(report.Series.Window(r.opts.GraphWindow))
	p.drawForecast(report.Daily)
	p.drawFooter()

	rgba := p.dc.Image()
	canvas := image.NewGray(rgba.Bounds())
	draw.Draw(canvas, canvas.Bounds(), rgba, rgba.Bounds().Min, draw.Src)
	p.frame.Canvas = canvas
	return p.frame, nil
}

// painter carries the vertical cursor through one render.
type painter struct {
	ctx    context.Context
	logger *logger.Logger
	opts   Options
	dc     *gg.Context
	loc    *localizer
	units  string
	now    time.Time
	zone   *time.Location
	frame  *Frame
	y      float64
}

func (p *painter) width() float64 {
	return float64(p.opts.Width)
}

func (p *painter) footerTop() float64 {
	return float64(p.opts.Height) - footerFromBottom
}

func (p *painter) setFont(bold bool, size float64) {
	p.dc.SetFontFace(p.opts.Fonts.Face(bold, size))
}

func (p *painter) text(text string, x, y float64) {
	drawStringLeft(p.dc, text, x, y)
	p.frame.Texts = append(p.frame.Texts, text)
}

func (p *painter) rule(y float64) {
	p.dc.SetLineWidth(2)
	p.dc.DrawLine(margin, y, p.width()-margin, y)
	p.dc.Stroke()
}

func (p *painter) icon(code string, size int, x, y float64) {
	if p.opts.Icons == nil || code == "" {
		return
	}
	img, err := p.opts.Icons.Resolve(p.ctx, code, size)
	if err != nil {
		if errors.Is(err, icons.ErrDisabled) {
			p.logger.Debug("icons disabled", "code", code)
		} else {
			p.logger.Warn("skipping icon", "code", code, logger.Err(err))
		}
		return
	}
	p.dc.DrawImage(img, int(x), int(y))
	p.frame.Icons = append(p.frame.Icons, code)
}

func (p *painter) mark(section Section) {
	p.frame.Sections = append(p.frame.Sections, section)
}

func (p *painter) drawHeading(location string) {
	p.y = titleTop
	p.setFont(true, titleSize)
	p.text(p.loc.sprintf(p.loc.title, location), margin, p.y)
	p.mark(SectionTitle)
	p.y += titleAdvance

	p.setFont(false, dateSize)
	p.text(p.loc.formatDate(p.now), margin, p.y)
	p.mark(SectionDate)
	p.y += dateAdvance

	p.rule(p.y + ruleOffset)
	p.y += ruleAdvance
}

func (p *painter) drawCurrent(sample data.WeatherSample) {
	p.setFont(true, temperatureSize)
	p.text(FormatTemperature(sample.Temperature, p.units), margin, p.y)
	p.icon(sample.IconCode, currentIconSize, currentIconX, p.y)
	p.y += currentAdvance

	if sample.Description != "" {
		p.setFont(false, descriptionSize)
		p.text(fitString(p.dc, sample.Description, p.width()-2*margin), margin, p.y)
		p.y += descriptionStep
	}

	p.setFont(false, detailSize)
	units := unitsFor(p.units)
	if sample.FeelsLike != nil {
		p.text(p.loc.sprintf(p.loc.feelsLike, FormatTemperature(*sample.FeelsLike, p.units)), margin, p.y)
		p.y += detailStep
	}
	if sample.Humidity != nil {
		p.text(p.loc.sprintf(p.loc.humidity, *sample.Humidity), margin, p.y)
		p.y += detailStep
	}
	if sample.WindSpeed != nil {
		p.text(p.loc.sprintf(p.loc.wind, *sample.WindSpeed, units.speed), margin, p.y)
		p.y += detailStep
	}
	if strings.HasSuffix(sample.IconCode, "n") {
		phase := p.loc.moonPhase(moonphase.New(p.now).PhaseName())
		p.text(p.loc.sprintf(p.loc.moon, phase), margin, p.y)
		p.y += detailStep
	}
	p.mark(SectionCurrent)
	p.y += sectionGap
}

func (p *painter) drawPrecipitation(precip float64) {
	if precip <= 0 {
		return
	}
	p.setFont(false, detailSize)
	p.text(p.loc.sprintf(p.loc.precipitation, precip), margin, p.y)
	p.y += detailStep

	// a 2px border surrounds the interior
	p.dc.SetLineWidth(2)
	p.dc.DrawRectangle(margin, p.y, PrecipitationInterior+4, precipBarHeight)
	p.dc.Stroke()
	if fill := BarWidth(precip, PrecipitationInterior, PrecipitationScale); fill > 0 {
		p.dc.DrawRectangle(margin+2, p.y+2, fill, precipBarHeight-4)
		p.dc.Fill()
	}
	p.mark(SectionPrecipitation)
	p.y += precipAdvance
}

func (p *painter) drawGraph(window data.ForecastSeries) {
	if len(window) == 0 {
		return
	}
	lo, hi := window.TemperatureRange()
	hours := int(p.opts.GraphWindow / time.Hour)

	p.setFont(false, captionSize)
	p.text(p.loc.sprintf(p.loc.graph, hours), margin, p.y)
	rangeText := formatRange(lo, hi)
	drawStringRight(p.dc, rangeText, p.width()-margin, p.y)
	p.frame.Texts = append(p.frame.Texts, rangeText)
	p.y += captionStep

	area := Rect{X: margin, Y: p.y, W: p.width() - 2*margin, H: graphHeight}
	p.dc.SetLineWidth(1)
	p.dc.DrawRectangle(area.X, area.Y, area.W, area.H)
	p.dc.Stroke()

	points := GraphPoints(window, area)
	if len(points) == 1 {
		p.dc.DrawCircle(points[0].X, points[0].Y, 3)
		p.dc.Fill()
	} else {
		p.dc.MoveTo(points[0].X, points[0].Y)
		for _, pt := range points[1:] {
			p.dc.LineTo(pt.X, pt.Y)
		}
		p.dc.SetLineWidth(3)
		p.dc.Stroke()
	}
	p.mark(SectionGraph)
	p.y += graphAdvance
}

func (p *painter) drawForecast(entries []data.DailyForecastEntry) {
	if len(entries) == 0 {
		return
	}
	drawn := 0
	for _, entry := range entries {
		if drawn == p.opts.ForecastRows || p.y+rowHeight > p.footerTop() {
			break
		}
		date := entry.Date.In(p.zone)

		p.setFont(true, rowSize)
		p.text(p.loc.shortWeekdays[date.Weekday()], margin, p.y)
		p.icon(entry.Sample.IconCode, rowIconSize, rowIconX, p.y)

		p.setFont(false, rowSize)
		p.text(formatRange(entry.Min, entry.Max), rowRangeX, p.y)
		if entry.Sample.Description != "" {
			p.text(fitString(p.dc, entry.Sample.Description, p.width()-margin-rowDescriptionX), rowDescriptionX, p.y)
		}
		p.y += rowHeight
		drawn++
	}
	if drawn > 0 {
		p.mark(SectionForecast)
	} else {
		p.logger.Debug("no room for forecast rows", "cursor", p.y)
	}
}

func (p *painter) drawFooter() {
	top := p.footerTop()
	p.rule(top)

	p.setFont(false, footerSize)
	p.dc.SetRGB255(120, 120, 120)
	text := p.loc.sprintf(p.loc.updated, p.now.Format("15:04"))
	drawStringCentered(p.dc, text, p.width()/2, top+12)
	p.frame.Texts = append(p.frame.Texts, text)
	p.dc.SetRGB(0, 0, 0)
	p.mark(SectionFooter)
}
