package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY"`
	WeatherAPIKey     string `envconfig:"WEATHERAPI_API_KEY"`
	GeocoderAPIKey    string `envconfig:"GEOCODER_API_KEY"`

	// EnableOpenMeteo adds the keyless Open-Meteo provider.
	EnableOpenMeteo bool `envconfig:"ENABLE_OPENMETEO" default:"true"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`

	// RefreshInterval controls how often the cache is warmed for each city.
	// Zero disables the scheduler.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"15m" validate:"gte=0"`

	// Cached conditions younger than CacheMaxAge are served without calling
	// providers.
	CacheMaxAge     time.Duration `envconfig:"CACHE_MAX_AGE" default:"10m" validate:"gte=0"`
	CacheMaxHistory int           `envconfig:"CACHE_MAX_HISTORY" default:"4" validate:"gte=0"`

	// MockAlerts serves demonstration alerts when the alert feed is unavailable.
	MockAlerts bool `envconfig:"MOCK_ALERTS" default:"false"`

	// Cities to keep warm, by catalog name. Empty means the whole catalog.
	Cities []string `envconfig:"WEATHER_CITIES"`

	Port string `envconfig:"PORT" default:"8080" validate:"required,numeric"`

	// Locations resolved from Cities.
	Locations []weather.Location `ignored:"true"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	locs, err := loadLocations(cfg.Cities)
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	if cfg.OpenWeatherAPIKey == "" {
		log.Printf("INFO: OPENWEATHER_API_KEY is not set, OpenWeatherMap is disabled")
	}
	return cfg, nil
}

func loadLocations(names []string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c, ok := weather.FindCity(name)
		if !ok {
			return nil, fmt.Errorf("unknown city %q in WEATHER_CITIES", name)
		}
		locs = append(locs, c.Location())
	}
	if len(locs) == 0 {
		return weather.CityLocations(), nil
	}
	return locs, nil
}
