package owm

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/stuartleeks/home-dash/weather-eink/logger"
)

const (
	// DefaultTimeout bounds every request of a run.
	DefaultTimeout = 10 * time.Second
	DefaultBaseURL = "https://api.openweathermap.org/data"

	maxBodySize = 4 << 20
)

var (
	version   = "dev"
	UserAgent = fmt.Sprintf("weather-eink/%s (%s; %s)", version, runtime.GOOS, runtime.GOARCH)
)

var endpoints = map[Mode]string{
	ModeCurrent:  "2.5/weather",
	ModeForecast: "2.5/forecast",
	ModeOneCall:  "3.0/onecall",
}

// Location is either a city query or a coordinate pair.
type Location struct {
	City           string
	Country        string
	Lat            float64
	Lon            float64
	UseCoordinates bool
}

type Options struct {
	BaseURL  string
	APIKey   string
	Units    string
	Language string
	Location Location
	Mode     Mode
	Timeout  time.Duration
}

// Client talks to the OpenWeatherMap data API.
type Client struct {
	client  *http.Client
	logger  *logger.Logger
	opts    Options
	onecall []byte
}

var _ Source = (*Client)(nil)

func New(log *logger.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Mode == "" {
		opts.Mode = ModeForecast
	}
	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12}},
	}
	return &Client{client: httpClient, logger: log, opts: opts}
}

// Current fetches the document holding current conditions.
func (c *Client) Current(ctx context.Context) ([]byte, error) {
	switch c.opts.Mode {
	case ModeOneCall:
		return c.fetchOneCall(ctx)
	case ModeCurrent, ModeForecast:
		return c.Get(ctx, endpoints[ModeCurrent], nil)
	}
	return nil, &FetchError{Endpoint: string(c.opts.Mode), Err: ErrUnknownMode}
}

// Forecast fetches the forecast document. In one-call mode the document
// fetched by Current is reused.
func (c *Client) Forecast(ctx context.Context) ([]byte, error) {
	switch c.opts.Mode {
	case ModeOneCall:
		return c.fetchOneCall(ctx)
	case ModeForecast:
		return c.Get(ctx, endpoints[ModeForecast], nil)
	case ModeCurrent:
		return nil, nil
	}
	return nil, &FetchError{Endpoint: string(c.opts.Mode), Err: ErrUnknownMode}
}

func (c *Client) fetchOneCall(ctx context.Context) ([]byte, error) {
	if c.onecall != nil {
		return c.onecall, nil
	}
	extra := url.Values{}
	extra.Set("exclude", "minutely,alerts")
	payload, err := c.Get(ctx, endpoints[ModeOneCall], extra)
	if err != nil {
		return nil, err
	}
	c.onecall = payload
	return payload, nil
}

// Get performs a GET on endpoint below the base URL with the location,
// units, language and credential query parameters and returns the body.
func (c *Client) Get(ctx context.Context, endpoint string, extra url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	reqURL, err := url.Parse(strings.TrimSuffix(c.opts.BaseURL, "/") + "/" + endpoint)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to parse URL: %w", err)}
	}
	query := c.query()
	for k, v := range extra {
		query[k] = v
	}
	reqURL.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	request.Header.Set("User-Agent", UserAgent)
	request.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting weather data", "endpoint", endpoint)
	response, err := c.client.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &FetchError{Endpoint: endpoint, Err: redact(err)}
		}
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to perform HTTP request: %w", redact(err))}
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error("failed to close HTTP response body", logger.Err(err))
		}
	}(response.Body)

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, StatusCode: response.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if response.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Endpoint:   endpoint,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, apiMessage(body, response.Status)),
		}
	}
	if !json.Valid(body) {
		return nil, &FetchError{Endpoint: endpoint, StatusCode: response.StatusCode, Err: ErrMalformedJSON}
	}
	c.logger.Debug("received weather data", "endpoint", endpoint, "bytes", len(body))

	return body, nil
}

func (c *Client) query() url.Values {
	query := url.Values{}
	loc := c.opts.Location
	if loc.UseCoordinates {
		query.Set("lat", strconv.FormatFloat(loc.Lat, 'f', 4, 64))
		query.Set("lon", strconv.FormatFloat(loc.Lon, 'f', 4, 64))
	} else {
		q := loc.City
		if loc.Country != "" {
			q = loc.City + "," + loc.Country
		}
		query.Set("q", q)
	}
	if c.opts.Units != "" {
		query.Set("units", c.opts.Units)
	}
	if c.opts.Language != "" {
		query.Set("lang", c.opts.Language)
	}
	query.Set("appid", c.opts.APIKey)
	return query
}

type apiError struct {
	Message string `json:"message"`
}

// apiMessage extracts the message OpenWeatherMap puts into error bodies.
func apiMessage(body []byte, status string) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return status
}

// redact strips the query string, and with it the credential, from URL errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, perr := url.Parse(urlErr.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
		}
	}
	return err
}
