package weather

import (
	"context"
	"time"
)

// ProviderReading represents a single provider's normalized reading
// that can be aggregated into Conditions.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC *float64
	FeelsLikeC   float64
	TempMinC     float64
	TempMaxC     float64
	HumidityPct  float64
	WindSpeedMS  *float64
	WindDeg      *float64
	PressureHpa  *float64
	VisibilityM  *int
	CloudsPct    float64

	Condition   Condition
	Description string
	Icon        string

	Sunrise *time.Time
	Sunset  *time.Time
}

// Provider abstracts a current-conditions source (OpenWeatherMap, WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (ProviderReading, error)
}

// ForecastProvider is implemented by providers that serve multi-day forecasts.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, loc Location) ([]ForecastEntry, error)
}

// AlertProvider is implemented by providers that serve weather alerts.
type AlertProvider interface {
	FetchAlerts(ctx context.Context, loc Location) ([]Alert, error)
}

// Store is the contract the conditions cache must satisfy.
type Store interface {
	SaveSnapshot(loc Location, snapshot Conditions)
	GetLatest(loc Location) (Conditions, error)
}
