package owm

import (
	"context"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/stuartleeks/home-dash/weather-eink/data"
)

// FileSource serves payloads saved by an external collector:
// current.json, forecast.json or onecall.json inside Dir.
type FileSource struct {
	Dir  string
	Mode Mode
}

var _ Source = (*FileSource)(nil)

func (f *FileSource) Current(_ context.Context) ([]byte, error) {
	if f.Mode == ModeOneCall {
		return f.read("onecall.json")
	}
	return f.read("current.json")
}

func (f *FileSource) Forecast(_ context.Context) ([]byte, error) {
	switch f.Mode {
	case ModeOneCall:
		return f.read("onecall.json")
	case ModeForecast:
		return f.read("forecast.json")
	}
	return nil, nil
}

func (f *FileSource) read(name string) ([]byte, error) {
	path := filepath.Join(f.Dir, name)
	payload, err := data.ReadFileShared(path)
	if err != nil {
		return nil, &FetchError{Endpoint: path, Err: err}
	}
	if !json.Valid(payload) {
		return nil, &FetchError{Endpoint: path, Err: ErrMalformedJSON}
	}
	return payload, nil
}
