package data

import (
	"errors"
	"os"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	payload, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %s", name, err)
	}
	return payload
}

func TestNormalizer_Sample(t *testing.T) {
	n := NewNormalizer(language.English)

	t.Run("minimal payload degrades optional fields", func(t *testing.T) {
		sample, err := n.Sample([]byte(`{"main":{"temp":20},"weather":[{"description":"clear sky","icon":"01d"}],"name":"Bern"}`))
		if err != nil {
			t.Fatalf("failed to normalize: %s", err)
		}
		if sample.Temperature != 20 {
			t.Errorf("expected temperature 20, got %f", sample.Temperature)
		}
		if sample.Description != "Clear Sky" {
			t.Errorf("expected title-cased description, got %q", sample.Description)
		}
		if sample.IconCode != "01d" {
			t.Errorf("expected icon 01d, got %q", sample.IconCode)
		}
		if sample.FeelsLike != nil || sample.Humidity != nil || sample.WindSpeed != nil {
			t.Error("expected optional fields to be nil")
		}
		if sample.Precipitation != 0 {
			t.Errorf("expected precipitation 0, got %f", sample.Precipitation)
		}
		if !sample.Timestamp.IsZero() {
			t.Errorf("expected zero timestamp, got %s", sample.Timestamp)
		}
	})
	t.Run("payloads missing optional fields never fail", func(t *testing.T) {
		payloads := []string{
			`{"main":{"temp":1}}`,
			`{"main":{"temp":1,"humidity":null},"wind":{}}`,
			`{"main":{"temp":1},"weather":[]}`,
			`{"main":{"temp":1},"weather":"broken","rain":"lots"}`,
			`{"temp":1,"wind_speed":"n/a"}`,
		}
		for _, payload := range payloads {
			sample, err := n.Sample([]byte(payload))
			if err != nil {
				t.Errorf("payload %s: unexpected error: %s", payload, err)
				continue
			}
			if sample.Temperature != 1 {
				t.Errorf("payload %s: expected temperature 1, got %f", payload, sample.Temperature)
			}
			if sample.Precipitation != 0 || sample.WindSpeed != nil {
				t.Errorf("payload %s: expected defaults, got %+v", payload, sample)
			}
		}
	})
	t.Run("missing temperature is a data error", func(t *testing.T) {
		payloads := []string{
			`{}`,
			`{"main":{}}`,
			`{"main":{"humidity":40},"weather":[{"description":"mist"}]}`,
			`{"main":{"temp":"warm"}}`,
			`not json`,
		}
		for _, payload := range payloads {
			_, err := n.Sample([]byte(payload))
			if err == nil {
				t.Errorf("payload %s: expected error", payload)
				continue
			}
			var dataErr *DataError
			if !errors.As(err, &dataErr) {
				t.Errorf("payload %s: expected DataError, got %T", payload, err)
			}
			if !errors.Is(err, ErrMissingTemperature) {
				t.Errorf("payload %s: expected %s, got %s", payload, ErrMissingTemperature, err)
			}
		}
	})
	t.Run("first precipitation key wins", func(t *testing.T) {
		tests := []struct {
			payload string
			want    float64
		}{
			{`{"temp":1,"rain":{"1h":0.5,"3h":2}}`, 0.5},
			{`{"temp":1,"rain":{"3h":2},"snow":{"1h":4}}`, 2},
			{`{"temp":1,"snow":{"3h":1.25}}`, 1.25},
			{`{"temp":1,"rain":3.5}`, 3.5},
			{`{"temp":1,"snow":{"1h":"0.7"}}`, 0.7},
			{`{"temp":1}`, 0},
		}
		for _, tc := range tests {
			sample, err := n.Sample([]byte(tc.payload))
			if err != nil {
				t.Fatalf("payload %s: unexpected error: %s", tc.payload, err)
			}
			if sample.Precipitation != tc.want {
				t.Errorf("payload %s: expected precipitation %g, got %g", tc.payload, tc.want, sample.Precipitation)
			}
		}
	})
	t.Run("timestamp from dt_txt", func(t *testing.T) {
		sample, err := n.Sample([]byte(`{"temp":1,"dt_txt":"2026-10-17 09:00:00"}`))
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		want := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
		if !sample.Timestamp.Equal(want) {
			t.Errorf("expected %s, got %s", want, sample.Timestamp)
		}
	})
	t.Run("daily one-call shape", func(t *testing.T) {
		sample, err := n.Sample([]byte(`{"dt":1792234800,"temp":{"day":15.1,"min":7.2},"feels_like":{"day":14},"rain":2.5}`))
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if sample.Temperature != 15.1 || sample.FeelsLike == nil || *sample.FeelsLike != 14 {
			t.Errorf("unexpected sample %+v", sample)
		}
		if sample.Precipitation != 2.5 {
			t.Errorf("expected precipitation 2.5, got %f", sample.Precipitation)
		}
	})
}

func TestNormalizer_Current(t *testing.T) {
	n := NewNormalizer(language.English)

	t.Run("current weather endpoint", func(t *testing.T) {
		sample, err := n.Current(readFixture(t, "current.json"))
		if err != nil {
			t.Fatalf("failed to normalize: %s", err)
		}
		if sample.Temperature != 12.6 {
			t.Errorf("expected 12.6, got %f", sample.Temperature)
		}
		if sample.FeelsLike == nil || *sample.FeelsLike != 11.9 {
			t.Errorf("expected feels like 11.9, got %v", sample.FeelsLike)
		}
		if sample.Humidity == nil || *sample.Humidity != 81 {
			t.Errorf("expected humidity 81, got %v", sample.Humidity)
		}
		if sample.WindSpeed == nil || *sample.WindSpeed != 3.6 {
			t.Errorf("expected wind 3.6, got %v", sample.WindSpeed)
		}
		if sample.Precipitation != 0.52 {
			t.Errorf("expected precipitation 0.52, got %f", sample.Precipitation)
		}
		if sample.Description != "Light Rain" {
			t.Errorf("expected Light Rain, got %q", sample.Description)
		}
	})
	t.Run("one-call nests current conditions", func(t *testing.T) {
		sample, err := n.Current(readFixture(t, "onecall.json"))
		if err != nil {
			t.Fatalf("failed to normalize: %s", err)
		}
		if sample.Temperature != 14.2 {
			t.Errorf("expected 14.2, got %f", sample.Temperature)
		}
		if sample.Precipitation != 0.3 {
			t.Errorf("expected snow precipitation 0.3, got %f", sample.Precipitation)
		}
		if sample.Description != "Scattered Clouds" {
			t.Errorf("expected Scattered Clouds, got %q", sample.Description)
		}
	})
	t.Run("missing temperature wraps the data error", func(t *testing.T) {
		_, err := n.Current([]byte(`{"current":{"humidity":20}}`))
		var dataErr *DataError
		if !errors.As(err, &dataErr) {
			t.Fatalf("expected data error, got %v", err)
		}
	})
	t.Run("descriptions are title-cased per language", func(t *testing.T) {
		de := NewNormalizer(language.German)
		sample, err := de.Current([]byte(`{"main":{"temp":3},"weather":[{"description":"leichter regen"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if sample.Description != "Leichter Regen" {
			t.Errorf("expected Leichter Regen, got %q", sample.Description)
		}
	})
}

func TestNormalizer_Series(t *testing.T) {
	n := NewNormalizer(language.English)

	t.Run("forecast list", func(t *testing.T) {
		series, skipped := n.Series(readFixture(t, "forecast.json"))
		if len(series) != 40 {
			t.Fatalf("expected 40 samples, got %d", len(series))
		}
		if skipped != 1 {
			t.Errorf("expected 1 skipped entry, got %d", skipped)
		}
		for i := 1; i < len(series); i++ {
			if series[i].Timestamp.Before(series[i-1].Timestamp) {
				t.Fatalf("series not chronological at %d", i)
			}
		}
	})
	t.Run("one-call hourly", func(t *testing.T) {
		series, skipped := n.Series(readFixture(t, "onecall.json"))
		if len(series) != 48 || skipped != 0 {
			t.Errorf("expected 48 samples and none skipped, got %d/%d", len(series), skipped)
		}
	})
	t.Run("unsorted input is ordered", func(t *testing.T) {
		series, _ := n.Series([]byte(`{"list":[{"dt":300,"temp":3},{"dt":100,"temp":1},{"dt":200,"temp":2}]}`))
		if len(series) != 3 {
			t.Fatalf("expected 3 samples, got %d", len(series))
		}
		for i, want := range []float64{1, 2, 3} {
			if series[i].Temperature != want {
				t.Errorf("index %d: expected %g, got %g", i, want, series[i].Temperature)
			}
		}
	})
	t.Run("payload without a list is empty", func(t *testing.T) {
		series, skipped := n.Series(readFixture(t, "current.json"))
		if len(series) != 0 || skipped != 0 {
			t.Errorf("expected empty series, got %d/%d", len(series), skipped)
		}
	})
}

func TestTimeZone(t *testing.T) {
	fallback := time.FixedZone("fallback", 3600)
	tests := []struct {
		name    string
		payload string
		offset  int
	}{
		{"current offset", `{"timezone":7200}`, 7200},
		{"forecast city offset", `{"city":{"timezone":-18000}}`, -18000},
		{"one-call offset", `{"timezone_offset":19800}`, 19800},
		{"missing", `{}`, 3600},
		{"unknown zone name", `{"timezone":"Mars/Olympus"}`, 3600},
	}
	when := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loc := TimeZone([]byte(tc.payload), fallback)
			if _, offset := when.In(loc).Zone(); offset != tc.offset {
				t.Errorf("expected offset %d, got %d", tc.offset, offset)
			}
		})
	}
	t.Run("zone name wins over offset", func(t *testing.T) {
		loc := TimeZone([]byte(`{"timezone":"Europe/Zurich","timezone_offset":7200}`), fallback)
		if loc.String() != "Europe/Zurich" {
			t.Errorf("expected Europe/Zurich, got %s", loc)
		}
		if _, offset := when.In(loc).Zone(); offset != 3600 {
			t.Errorf("expected winter offset 3600, got %d", offset)
		}
	})
	t.Run("fixed zone names", func(t *testing.T) {
		loc := TimeZone([]byte(`{"timezone":-12600}`), fallback)
		if loc.String() != "UTC-03:30" {
			t.Errorf("expected UTC-03:30, got %s", loc)
		}
	})
}

func TestLocationName(t *testing.T) {
	if name, ok := LocationName([]byte(`{"city":{"name":"Bern"}}`)); !ok || name != "Bern" {
		t.Errorf("expected Bern, got %q (%t)", name, ok)
	}
	if _, ok := LocationName([]byte(`{"name":""}`)); ok {
		t.Error("expected empty name to count as absent")
	}
}

func TestCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Coordinate
		ok      bool
	}{
		{"current weather", `{"coord":{"lat":46.95,"lon":7.45}}`, Coordinate{Lat: 46.95, Lon: 7.45}, true},
		{"one call", `{"lat":46.93,"lon":7.42}`, Coordinate{Lat: 46.93, Lon: 7.42}, true},
		{"forecast", `{"city":{"coord":{"lat":"46.9","lon":"7.4"}}}`, Coordinate{Lat: 46.9, Lon: 7.4}, true},
		{"incomplete pair", `{"coord":{"lat":46.95},"lon":7.45}`, Coordinate{}, false},
		{"absent", `{}`, Coordinate{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Coordinates([]byte(tc.payload))
			if ok != tc.ok || got != tc.want {
				t.Errorf("expected %v (%t), got %v (%t)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
