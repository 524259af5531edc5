// Package owm retrieves raw OpenWeatherMap payloads, either from the HTTP API
// or from files a collector dropped into a directory.
package owm

import (
	"context"
	"errors"
	"fmt"
)

// Mode selects which API shape is requested.
type Mode string

const (
	ModeCurrent  Mode = "current"
	ModeForecast Mode = "forecast"
	ModeOneCall  Mode = "onecall"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrMalformedJSON    = errors.New("malformed JSON document")
	ErrUnknownMode      = errors.New("unknown API mode")
)

// Source hands out the raw current and forecast documents of one run.
// Forecast returns nil without error when the mode has no forecast.
type Source interface {
	Current(ctx context.Context) ([]byte, error)
	Forecast(ctx context.Context) ([]byte, error)
}

// FetchError is returned for network failures, non-200 responses and
// documents that are not valid JSON.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s (HTTP %d): %s", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: %s", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch mode := Mode(s); mode {
	case ModeCurrent, ModeForecast, ModeOneCall:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
