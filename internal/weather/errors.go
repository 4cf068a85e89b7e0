package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the upstream rejects the API key.
	ErrUnauthorized = errors.New("upstream rejected api key")
	// ErrRateLimited is returned when the upstream keeps answering 429.
	ErrRateLimited = errors.New("upstream rate limit exceeded")
	// ErrNoProviders is returned when no provider can serve a request.
	ErrNoProviders = errors.New("no weather providers configured")
	// ErrNoData is returned when providers answered but produced nothing usable.
	ErrNoData = errors.New("no weather data available")
)

// UpstreamError carries a non-2xx status the upstream answered with.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s api error: %d %s", e.Provider, e.StatusCode, e.Status)
}
