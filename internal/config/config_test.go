package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "owm-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "owm-key", cfg.OpenWeatherAPIKey)
	assert.True(t, cfg.EnableOpenMeteo)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Minute, cfg.CacheMaxAge)
	assert.Equal(t, 4, cfg.CacheMaxHistory)
	assert.False(t, cfg.MockAlerts)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, weather.CityLocations(), cfg.Locations)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENABLE_OPENMETEO", "false")
	t.Setenv("REFRESH_INTERVAL", "0s")
	t.Setenv("MOCK_ALERTS", "true")
	t.Setenv("WEATHER_CITIES", "sousse, Sfax")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.EnableOpenMeteo)
	assert.Zero(t, cfg.RefreshInterval)
	assert.True(t, cfg.MockAlerts)
	assert.Equal(t, "9090", cfg.Port)
	require.Len(t, cfg.Locations, 2)
	assert.Equal(t, "Sousse", cfg.Locations[0].Name)
	assert.Equal(t, "Sfax", cfg.Locations[1].Name)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"HTTP_TIMEOUT":      "soon",
		"CACHE_MAX_HISTORY": "-1",
		"PORT":              "http",
		"WEATHER_CITIES":    "Atlantis",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
