package data

import (
	"fmt"
	"math"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/buger/jsonparser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dtTextLayout = "2006-01-02 15:04:05"

var defaultLanguage = language.English

// Candidate key paths, most specific first. They cover the current-weather,
// 5 day/3 hour forecast and one-call response shapes.
var (
	temperaturePaths   = []Path{{"main", "temp"}, {"temp"}, {"temp", "day"}}
	feelsLikePaths     = []Path{{"main", "feels_like"}, {"feels_like"}, {"feels_like", "day"}}
	humidityPaths      = []Path{{"main", "humidity"}, {"humidity"}}
	windSpeedPaths     = []Path{{"wind", "speed"}, {"wind_speed"}}
	descriptionPaths   = []Path{{"weather", "[0]", "description"}}
	iconPaths          = []Path{{"weather", "[0]", "icon"}}
	precipitationPaths = []Path{
		{"rain", "1h"}, {"rain", "3h"},
		{"snow", "1h"}, {"snow", "3h"},
		{"rain"}, {"snow"},
	}
	currentPaths      = []Path{{"current"}}
	seriesKeys        = []string{"list", "hourly"}
	locationNamePaths = []Path{{"name"}, {"city", "name"}}
	zoneOffsetPaths   = []Path{{"timezone_offset"}, {"city", "timezone"}, {"timezone"}}
	// coordinatePaths pairs latitude and longitude paths.
	coordinatePaths = [][2]Path{
		{{"coord", "lat"}, {"coord", "lon"}},
		{{"lat"}, {"lon"}},
		{{"city", "coord", "lat"}, {"city", "coord", "lon"}},
	}
)

// Normalizer turns loosely structured API payloads into WeatherSamples.
type Normalizer struct {
	caser cases.Caser
}

// NewNormalizer returns a Normalizer title-casing descriptions for lang.
func NewNormalizer(lang language.Tag) *Normalizer {
	return &Normalizer{caser: cases.Title(lang)}
}

// Sample extracts one WeatherSample from a flat payload object. Only a
// missing temperature is an error.
func (n *Normalizer) Sample(payload []byte) (WeatherSample, error) {
	temp, ok := LookupFloat(payload, temperaturePaths...)
	if !ok {
		return WeatherSample{}, &DataError{Field: "temperature", Err: ErrMissingTemperature}
	}

	sample := WeatherSample{Temperature: temp}
	if v, ok := LookupFloat(payload, feelsLikePaths...); ok {
		sample.FeelsLike = &v
	}
	if v, ok := LookupFloat(payload, humidityPaths...); ok {
		h := int(math.Round(v))
		sample.Humidity = &h
	}
	if v, ok := LookupFloat(payload, windSpeedPaths...); ok {
		sample.WindSpeed = &v
	}
	if v, ok := LookupFloat(payload, precipitationPaths...); ok && v > 0 {
		sample.Precipitation = v
	}
	if v, ok := LookupString(payload, descriptionPaths...); ok {
		sample.Description = n.caser.String(v)
	}
	if v, ok := LookupString(payload, iconPaths...); ok {
		sample.IconCode = v
	}
	sample.Timestamp = timestamp(payload)

	return sample, nil
}

// Current normalizes the current conditions of a payload, descending into a
// nested "current" object when the payload has one.
func (n *Normalizer) Current(payload []byte) (WeatherSample, error) {
	if obj, ok := LookupObject(payload, currentPaths...); ok {
		payload = obj
	}
	sample, err := n.Sample(payload)
	if err != nil {
		return sample, fmt.Errorf("failed to normalize current conditions: %w", err)
	}
	return sample, nil
}

// Series normalizes the forecast list of a payload. Entries without a
// temperature are dropped and counted in skipped.
func (n *Normalizer) Series(payload []byte) (series ForecastSeries, skipped int) {
	for _, key := range seriesKeys {
		_, err := jsonparser.ArrayEach(payload, func(value []byte, typ jsonparser.ValueType, _ int, _ error) {
			if typ != jsonparser.Object {
				skipped++
				return
			}
			sample, err := n.Sample(value)
			if err != nil {
				skipped++
				return
			}
			series = append(series, sample)
		}, key)
		if err == nil {
			break
		}
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series, skipped
}

// LocationName returns the place name a payload reports, if any.
func LocationName(payload []byte) (string, bool) {
	return LookupString(payload, locationNamePaths...)
}

// Coordinates returns the position a payload reports, if any.
func Coordinates(payload []byte) (Coordinate, bool) {
	for _, pair := range coordinatePaths {
		lat, latOK := LookupFloat(payload, pair[0])
		lon, lonOK := LookupFloat(payload, pair[1])
		if latOK && lonOK {
			return Coordinate{Lat: lat, Lon: lon}, true
		}
	}
	return Coordinate{}, false
}

// TimeZone returns the zone the payload's location lives in, or fallback.
// IANA names win over fixed offsets so DST changes inside the forecast window
// are honoured.
func TimeZone(payload []byte, fallback *time.Location) *time.Location {
	if name, ok := LookupString(payload, Path{"timezone"}); ok {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if offset, ok := LookupFloat(payload, zoneOffsetPaths...); ok {
		secs := int(offset)
		return time.FixedZone(zoneName(secs), secs)
	}
	return fallback
}

func zoneName(secs int) string {
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, secs/3600, secs%3600/60)
}

func timestamp(payload []byte) time.Time {
	if dt, ok := LookupFloat(payload, Path{"dt"}); ok {
		return time.Unix(int64(dt), 0).UTC()
	}
	if text, ok := LookupString(payload, Path{"dt_txt"}); ok {
		if t, err := time.ParseInLocation(dtTextLayout, text, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
