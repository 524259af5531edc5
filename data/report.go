package data

import (
	"time"
)

// Report is everything the renderer needs for one image.
type Report struct {
	Location string
	Current  WeatherSample
	Series   ForecastSeries
	Daily    []DailyForecastEntry
	TimeZone *time.Location
	// Coordinate is nil when no payload carries a position.
	Coordinate     *Coordinate
	GeneratedAt    time.Time
	SkippedSamples int
}

// ReportOptions tune how payloads are assembled into a Report.
type ReportOptions struct {
	Normalizer *Normalizer
	Days       int
	Selection  Selection
	// FallbackLocation is shown when neither payload names a place.
	FallbackLocation string
	FallbackZone     *time.Location
	Now              time.Time
}

// BuildReport normalizes the current payload and, when given, the forecast
// payload. Only a current payload without temperature fails the build; an
// absent or unusable forecast yields an empty series.
func BuildReport(current, forecast []byte, opts ReportOptions) (*Report, error) {
	normalizer := opts.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(defaultLanguage)
	}
	zone := opts.FallbackZone
	if zone == nil {
		zone = time.Local
	}

	sample, err := normalizer.Current(current)
	if err != nil {
		return nil, err
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = opts.Now
	}

	report := &Report{
		Location:    opts.FallbackLocation,
		Current:     sample,
		TimeZone:    TimeZone(current, zone),
		GeneratedAt: opts.Now,
	}
	if c, ok := Coordinates(current); ok {
		report.Coordinate = &c
	}
	named := false
	if name, ok := LocationName(current); ok {
		report.Location, named = name, true
	}

	if len(forecast) > 0 {
		report.Series, report.SkippedSamples = normalizer.Series(forecast)
		if name, ok := LocationName(forecast); ok && !named {
			report.Location = name
		}
		if c, ok := Coordinates(forecast); ok && report.Coordinate == nil {
			report.Coordinate = &c
		}
		if report.TimeZone == zone {
			report.TimeZone = TimeZone(forecast, zone)
		}
	}

	days := opts.Days
	if days == 0 {
		days = DefaultDays
	}
	report.Daily = DailyAggregate(report.Series, report.TimeZone, days, opts.Selection)

	return report, nil
}
