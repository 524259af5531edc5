package owm

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stuartleeks/home-dash/weather-eink/logger"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func testClient(opts Options, fn roundTripFunc) *Client {
	if opts.APIKey == "" {
		opts.APIKey = "secret-key"
	}
	client := New(logger.NewLogger(slog.LevelError, io.Discard), opts)
	client.client.Transport = fn
	return client
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client := New(logger.NewLogger(slog.LevelError, io.Discard), Options{APIKey: "secret-key"})
		if client.client.Timeout != DefaultTimeout {
			t.Errorf("expected timeout %s, got %s", DefaultTimeout, client.client.Timeout)
		}
		transport, ok := client.client.Transport.(*http.Transport)
		if !ok {
			t.Fatalf("expected *http.Transport, got %T", client.client.Transport)
		}
		if transport.TLSClientConfig.MinVersion != tls.VersionTLS12 {
			t.Errorf("expected TLS 1.2 minimum, got %x", transport.TLSClientConfig.MinVersion)
		}
		if client.opts.Mode != ModeForecast {
			t.Errorf("expected mode %q, got %q", ModeForecast, client.opts.Mode)
		}
	})
	t.Run("custom timeout", func(t *testing.T) {
		client := New(logger.NewLogger(slog.LevelError, io.Discard), Options{Timeout: 3 * time.Second})
		if client.client.Timeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %s", client.client.Timeout)
		}
	})
}

func TestClient_Current(t *testing.T) {
	t.Run("city query parameters", func(t *testing.T) {
		var got *http.Request
		client := testClient(Options{
			Units:    "metric",
			Language: "de",
			Location: Location{City: "Bern", Country: "CH"},
		}, func(req *http.Request) (*http.Response, error) {
			got = req
			return respond(http.StatusOK, `{"main":{"temp":20}}`), nil
		})

		payload, err := client.Current(t.Context())
		if err != nil {
			t.Fatalf("failed to fetch: %s", err)
		}
		if string(payload) != `{"main":{"temp":20}}` {
			t.Errorf("unexpected payload %s", payload)
		}
		if got.URL.Path != "/data/2.5/weather" {
			t.Errorf("expected current weather endpoint, got %s", got.URL.Path)
		}
		query := got.URL.Query()
		want := map[string]string{"q": "Bern,CH", "units": "metric", "lang": "de", "appid": "secret-key"}
		for k, v := range want {
			if query.Get(k) != v {
				t.Errorf("expected query %s=%q, got %q", k, v, query.Get(k))
			}
		}
		if got.Header.Get("User-Agent") != UserAgent {
			t.Errorf("expected user agent %q, got %q", UserAgent, got.Header.Get("User-Agent"))
		}
	})
	t.Run("coordinate query parameters", func(t *testing.T) {
		var got *http.Request
		client := testClient(Options{
			Location: Location{Lat: 46.9333, Lon: 7.4167, UseCoordinates: true},
		}, func(req *http.Request) (*http.Response, error) {
			got = req
			return respond(http.StatusOK, `{}`), nil
		})
		if _, err := client.Current(t.Context()); err != nil {
			t.Fatalf("failed to fetch: %s", err)
		}
		query := got.URL.Query()
		if query.Get("lat") != "46.9333" || query.Get("lon") != "7.4167" {
			t.Errorf("unexpected coordinates lat=%s lon=%s", query.Get("lat"), query.Get("lon"))
		}
		if query.Has("q") {
			t.Error("expected no city query with coordinates")
		}
	})
	t.Run("non-200 responses are fetch errors", func(t *testing.T) {
		client := testClient(Options{}, func(req *http.Request) (*http.Response, error) {
			return respond(http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key."}`), nil
		})
		_, err := client.Current(t.Context())
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if fetchErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", fetchErr.StatusCode)
		}
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected %s, got %s", ErrUnexpectedStatus, err)
		}
		if !strings.Contains(err.Error(), "Invalid API key.") {
			t.Errorf("expected API message in error, got %s", err)
		}
	})
	t.Run("malformed JSON is a fetch error", func(t *testing.T) {
		client := testClient(Options{}, func(req *http.Request) (*http.Response, error) {
			return respond(http.StatusOK, `{"main":`), nil
		})
		_, err := client.Current(t.Context())
		if !errors.Is(err, ErrMalformedJSON) {
			t.Fatalf("expected %s, got %v", ErrMalformedJSON, err)
		}
	})
	t.Run("transport errors do not leak the credential", func(t *testing.T) {
		client := testClient(Options{}, func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})
		_, err := client.Current(t.Context())
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if strings.Contains(err.Error(), "secret-key") {
			t.Errorf("expected credential to be redacted, got %s", err)
		}
	})
	t.Run("requests are bounded by the timeout", func(t *testing.T) {
		client := testClient(Options{Timeout: 20 * time.Millisecond}, func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})
		start := time.Now()
		_, err := client.Current(context.Background())
		if err == nil {
			t.Fatal("expected request to time out")
		}
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("expected timeout to cut the request short, took %s", elapsed)
		}
		if strings.Contains(err.Error(), "secret-key") {
			t.Errorf("expected credential to be redacted, got %s", err)
		}
	})
}

func TestClient_Forecast(t *testing.T) {
	t.Run("forecast mode uses the forecast endpoint", func(t *testing.T) {
		var path string
		client := testClient(Options{Mode: ModeForecast}, func(req *http.Request) (*http.Response, error) {
			path = req.URL.Path
			return respond(http.StatusOK, `{"list":[]}`), nil
		})
		if _, err := client.Forecast(t.Context()); err != nil {
			t.Fatalf("failed to fetch: %s", err)
		}
		if path != "/data/2.5/forecast" {
			t.Errorf("expected forecast endpoint, got %s", path)
		}
	})
	t.Run("current mode has no forecast", func(t *testing.T) {
		client := testClient(Options{Mode: ModeCurrent}, func(req *http.Request) (*http.Response, error) {
			t.Error("expected no request")
			return nil, errors.New("unexpected request")
		})
		payload, err := client.Forecast(t.Context())
		if err != nil || payload != nil {
			t.Errorf("expected nil payload and error, got %s/%v", payload, err)
		}
	})
	t.Run("one-call document is fetched once", func(t *testing.T) {
		calls := 0
		client := testClient(Options{Mode: ModeOneCall}, func(req *http.Request) (*http.Response, error) {
			calls++
			if req.URL.Path != "/data/3.0/onecall" {
				t.Errorf("expected one-call endpoint, got %s", req.URL.Path)
			}
			if req.URL.Query().Get("exclude") != "minutely,alerts" {
				t.Errorf("expected exclude parameter, got %q", req.URL.Query().Get("exclude"))
			}
			return respond(http.StatusOK, `{"current":{"temp":3},"hourly":[]}`), nil
		})
		current, err := client.Current(t.Context())
		if err != nil {
			t.Fatalf("failed to fetch current: %s", err)
		}
		forecast, err := client.Forecast(t.Context())
		if err != nil {
			t.Fatalf("failed to fetch forecast: %s", err)
		}
		if string(current) != string(forecast) {
			t.Error("expected both roles to share the document")
		}
		if calls != 1 {
			t.Errorf("expected 1 request, got %d", calls)
		}
	})
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"current", "forecast", "onecall"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("expected %q to parse: %s", s, err)
		}
	}
	if _, err := ParseMode("hourly"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected %s, got %v", ErrUnknownMode, err)
	}
}
