package owm

import (
	"errors"
	"os"
	"testing"
)

func TestFileSource(t *testing.T) {
	t.Run("forecast mode reads both files", func(t *testing.T) {
		src := &FileSource{Dir: "testdata", Mode: ModeForecast}
		current, err := src.Current(t.Context())
		if err != nil {
			t.Fatalf("failed to read current: %s", err)
		}
		forecast, err := src.Forecast(t.Context())
		if err != nil {
			t.Fatalf("failed to read forecast: %s", err)
		}
		if len(current) == 0 || len(forecast) == 0 {
			t.Error("expected both payloads to be non-empty")
		}
	})
	t.Run("current mode has no forecast", func(t *testing.T) {
		src := &FileSource{Dir: "testdata", Mode: ModeCurrent}
		forecast, err := src.Forecast(t.Context())
		if err != nil || forecast != nil {
			t.Errorf("expected nil forecast, got %s/%v", forecast, err)
		}
	})
	t.Run("one-call mode shares one file", func(t *testing.T) {
		src := &FileSource{Dir: "testdata", Mode: ModeOneCall}
		current, err := src.Current(t.Context())
		if err != nil {
			t.Fatalf("failed to read: %s", err)
		}
		forecast, _ := src.Forecast(t.Context())
		if string(current) != string(forecast) {
			t.Error("expected the same document for both roles")
		}
	})
	t.Run("missing file is a fetch error", func(t *testing.T) {
		src := &FileSource{Dir: t.TempDir(), Mode: ModeForecast}
		_, err := src.Forecast(t.Context())
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist cause, got %s", err)
		}
	})
	t.Run("broken JSON is a fetch error", func(t *testing.T) {
		src := &FileSource{Dir: "testdata/broken", Mode: ModeCurrent}
		_, err := src.Current(t.Context())
		if !errors.Is(err, ErrMalformedJSON) {
			t.Errorf("expected %s, got %v", ErrMalformedJSON, err)
		}
	})
}
