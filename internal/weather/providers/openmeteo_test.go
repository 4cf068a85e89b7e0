package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

func TestOpenMeteoFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ms", q.Get("wind_speed_unit"))
		assert.Equal(t, "unixtime", q.Get("timeformat"))
		assert.Contains(t, q.Get("current"), "visibility")
		_, _ = w.Write([]byte(`{"current": {"time": 1720000000, "temperature_2m": 24.5,
			"relative_humidity_2m": 55, "apparent_temperature": 25, "weather_code": 95,
			"cloud_cover": 90, "pressure_msl": 998.2, "wind_speed_10m": 9.1,
			"wind_direction_10m": 200, "visibility": 2400.4}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client()).WithBaseURL(srv.URL)

	r, err := p.Fetch(context.Background(), mahdia)
	require.NoError(t, err)

	assert.Equal(t, "openmeteo", r.ProviderName)
	assert.Equal(t, weather.ConditionThunderstorm, r.Condition)
	assert.Equal(t, "thunderstorm", r.Description)
	require.NotNil(t, r.WindSpeedMS)
	assert.Equal(t, 9.1, *r.WindSpeedMS)
	require.NotNil(t, r.TemperatureC)
	assert.Equal(t, 24.5, *r.TemperatureC)
	require.NotNil(t, r.VisibilityM)
	assert.Equal(t, 2400, *r.VisibilityM)
	require.NotNil(t, r.PressureHpa)
	assert.Equal(t, 998.2, *r.PressureHpa)
}

func TestOpenMeteoFetchNullCurrentValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current": {"time": 1720000000, "temperature_2m": null,
			"relative_humidity_2m": 55, "weather_code": 0, "wind_speed_10m": null}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client()).WithBaseURL(srv.URL)

	r, err := p.Fetch(context.Background(), mahdia)
	require.NoError(t, err)
	assert.Nil(t, r.TemperatureC)
	assert.Nil(t, r.WindSpeedMS)
	assert.Nil(t, r.VisibilityM)
	assert.Nil(t, r.PressureHpa)
}

func TestOpenMeteoFetchForecastSamplesEveryThreeHours(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("forecast_days"))
		_, _ = w.Write([]byte(`{"hourly": {
			"time": [1720000800, 1720004400, 1720008000, 1720011600, 1720015200],
			"temperature_2m": [20, 21, 22, 23, 24],
			"relative_humidity_2m": [50, 50, 50, 50, 50],
			"weather_code": [0, 0, 0, 61, 61],
			"cloud_cover": [0, 0, 0, 80, 80],
			"pressure_msl": [1010, 1010, 1010, 1009, 1009],
			"wind_speed_10m": [3, 3, 3, 5, 5],
			"wind_direction_10m": [90, 90, 90, 90, 90],
			"precipitation_probability": [0, 0, 0, 60, null]
		}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client()).WithBaseURL(srv.URL)

	entries, err := p.FetchForecast(context.Background(), mahdia)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, time.Unix(1720000800, 0).UTC(), entries[0].Timestamp)
	assert.Equal(t, weather.ConditionClear, entries[0].Condition)
	assert.Equal(t, 23.0, entries[1].TemperatureC)
	assert.Equal(t, weather.ConditionRain, entries[1].Condition)
	assert.InDelta(t, 0.6, entries[1].PrecipProb, 1e-9)
}

func TestMapOpenMeteoCode(t *testing.T) {
	tests := map[int]weather.Condition{
		0:  weather.ConditionClear,
		2:  weather.ConditionClouds,
		45: weather.ConditionFog,
		53: weather.ConditionDrizzle,
		63: weather.ConditionRain,
		81: weather.ConditionRain,
		73: weather.ConditionSnow,
		95: weather.ConditionThunderstorm,
		99: weather.ConditionThunderstorm,
		42: weather.ConditionUnknown,
	}

	for code, want := range tests {
		got, _, _ := mapOpenMeteoCode(code)
		assert.Equal(t, want, got, "code %d", code)
	}
}
