package icons

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"regexp"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const remoteDarken = 0.7

var iconCodePattern = regexp.MustCompile(`^[0-9]{2}[dn]$`)

// remoteSource downloads icon bitmaps. Requests are paced by a limiter and a
// breaker stops hammering a dead host after two consecutive failures.
type remoteSource struct {
	client      *http.Client
	urlTemplate string
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
}

func newRemoteSource(client *http.Client, urlTemplate string, rps float64) *remoteSource {
	if rps <= 0 {
		rps = 1
	}
	return &remoteSource{
		client:      client,
		urlTemplate: urlTemplate,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "icons",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 2
			},
		}),
	}
}

func (r *remoteSource) fetch(ctx context.Context, code string, size int) (*image.Gray, error) {
	if !iconCodePattern.MatchString(code) {
		return nil, fmt.Errorf("refusing to fetch malformed icon code %q", code)
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.get(ctx, fmt.Sprintf(r.urlTemplate, code), size)
	})
	if err != nil {
		return nil, err
	}
	return result.(*image.Gray), nil
}

func (r *remoteSource) get(ctx context.Context, url string, size int) (*image.Gray, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	response, err := r.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", response.StatusCode)
	}
	return Decode(response.Body, size, remoteDarken)
}
