// Package telemetry reports one event per render run to Application Insights.
package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/microsoft/ApplicationInsights-Go/appinsights"

	"github.com/stuartleeks/home-dash/weather-eink/logger"
)

const (
	DefaultRole  = "weather-eink"
	renderEvent  = "render"
	flushTimeout = 5 * time.Second
)

// Tracker records the outcome of a run. Every run gets an id that ties its
// event and any exception together.
type Tracker interface {
	RunID() string
	TrackRender(event RenderEvent)
	TrackError(err error)
	// Close flushes buffered telemetry, waiting at most timeout.
	Close(timeout time.Duration)
}

// RenderEvent describes one completed render.
type RenderEvent struct {
	Location       string
	Mode           string
	Inverted       bool
	Sections       []string
	SkippedSamples int
	Duration       time.Duration
}

func (e RenderEvent) properties() map[string]string {
	return map[string]string{
		"location": e.Location,
		"mode":     e.Mode,
		"inverted": fmt.Sprintf("%t", e.Inverted),
		"sections": strings.Join(e.Sections, ","),
	}
}

func (e RenderEvent) measurements() map[string]float64 {
	return map[string]float64{
		"duration-ms":     float64(e.Duration.Milliseconds()),
		"skipped-samples": float64(e.SkippedSamples),
	}
}

type Options struct {
	InstrumentationKey string
	Role               string
	// EndpointURL overrides the ingestion endpoint.
	EndpointURL string
}

// New returns an Application Insights tracker, or a tracker that only logs
// when no instrumentation key is configured.
func New(log *logger.Logger, opts Options) Tracker {
	runID := newRunID(log)
	if opts.InstrumentationKey == "" {
		return &nopTracker{logger: log, runID: runID}
	}

	telemetryConfig := appinsights.NewTelemetryConfiguration(opts.InstrumentationKey)
	telemetryConfig.MaxBatchSize = 8192
	telemetryConfig.MaxBatchInterval = 2 * time.Second
	if opts.EndpointURL != "" {
		telemetryConfig.EndpointUrl = opts.EndpointURL
	}
	role := opts.Role
	if role == "" {
		role = DefaultRole
	}

	client := appinsights.NewTelemetryClientFromConfig(telemetryConfig)
	client.Context().Tags.Cloud().SetRole(role)
	client.Context().Tags.Operation().SetId(runID)
	return &appInsightsTracker{client: client, runID: runID}
}

func newRunID(log *logger.Logger) string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Warn("failed to generate run id", logger.Err(err))
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return id.String()
}

type appInsightsTracker struct {
	client appinsights.TelemetryClient
	runID  string
}

func (t *appInsightsTracker) RunID() string {
	return t.runID
}

func (t *appInsightsTracker) TrackRender(event RenderEvent) {
	e := appinsights.NewEventTelemetry(renderEvent)
	for k, v := range event.properties() {
		e.Properties[k] = v
	}
	for k, v := range event.measurements() {
		e.Measurements[k] = v
	}
	t.client.Track(e)
}

func (t *appInsightsTracker) TrackError(err error) {
	t.client.TrackException(err)
}

func (t *appInsightsTracker) Close(timeout time.Duration) {
	if timeout <= 0 {
		timeout = flushTimeout
	}
	select {
	case <-t.client.Channel().Close(timeout):
	case <-time.After(timeout):
	}
}

type nopTracker struct {
	logger *logger.Logger
	runID  string
}

func (t *nopTracker) RunID() string {
	return t.runID
}

func (t *nopTracker) TrackRender(event RenderEvent) {
	t.logger.Debug("render finished", "run", t.runID, "location", event.Location,
		"inverted", event.Inverted, "duration", event.Duration)
}

func (t *nopTracker) TrackError(err error) {
	t.logger.Debug("run failed", "run", t.runID, logger.Err(err))
}

func (t *nopTracker) Close(time.Duration) {}
