package data

import "time"

// WeatherSample is the flat record every render section reads from.
// Optional readings are nil when the payload did not carry them.
type WeatherSample struct {
	Temperature   float64   `json:"temperature"`
	FeelsLike     *float64  `json:"feels_like,omitempty"`
	Description   string    `json:"description"`
	Humidity      *int      `json:"humidity,omitempty"`
	WindSpeed     *float64  `json:"wind_speed,omitempty"`
	Precipitation float64   `json:"precipitation"`
	IconCode      string    `json:"icon_code"`
	Timestamp     time.Time `json:"timestamp"`
}

// ForecastSeries is ordered chronologically; it may be empty.
type ForecastSeries []WeatherSample

// DailyForecastEntry is the representative sample of one local calendar day.
type DailyForecastEntry struct {
	Date   time.Time     `json:"date"`
	Sample WeatherSample `json:"sample"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
}

// Coordinate is a position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Window returns the samples whose timestamps fall within d of the first one.
func (s ForecastSeries) Window(d time.Duration) ForecastSeries {
	if len(s) == 0 {
		return nil
	}
	end := s[0].Timestamp.Add(d)
	for i, sample := range s {
		if !sample.Timestamp.Before(end) {
			return s[:i]
		}
	}
	return s
}

// TemperatureRange returns the lowest and highest temperature in the series.
func (s ForecastSeries) TemperatureRange() (float64, float64) {
	if len(s) == 0 {
		return 0, 0
	}
	lo, hi := s[0].Temperature, s[0].Temperature
	for _, sample := range s[1:] {
		lo = min(lo, sample.Temperature)
		hi = max(hi, sample.Temperature)
	}
	return lo, hi
}
