package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

// OpenMeteoProvider implements weather.Provider and weather.ForecastProvider
// for Open-Meteo. It needs no API key, which makes it the fallback source.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

const openMeteoVars = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,cloud_cover,pressure_msl,wind_speed_10m,wind_direction_10m,visibility"

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("openmeteo"),
	}
}

// WithBaseURL points the provider at another endpoint, e.g. a test server.
func (p *OpenMeteoProvider) WithBaseURL(u string) *OpenMeteoProvider {
	p.baseURL = u
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) url(loc weather.Location, extra url.Values) string {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	values.Set("wind_speed_unit", "ms")
	values.Set("timeformat", "unixtime")
	values.Set("timezone", "GMT")
	for k, v := range extra {
		values[k] = v
	}
	return fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	var payload struct {
		Current struct {
			Time        int64    `json:"time"`
			Temperature *float64 `json:"temperature_2m"`
			Humidity    float64  `json:"relative_humidity_2m"`
			FeelsLike   float64  `json:"apparent_temperature"`
			WeatherCode int      `json:"weather_code"`
			CloudCover  float64  `json:"cloud_cover"`
			Pressure    *float64 `json:"pressure_msl"`
			WindSpeed   *float64 `json:"wind_speed_10m"`
			WindDeg     *float64 `json:"wind_direction_10m"`
			Visibility  *float64 `json:"visibility"`
		} `json:"current"`
	}

	u := p.url(loc, url.Values{"current": {openMeteoVars}})
	if err := getJSON(ctx, p.name, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	cur := payload.Current
	ts := time.Now().UTC()
	if cur.Time > 0 {
		ts = time.Unix(cur.Time, 0).UTC()
	}

	cond, desc, icon := mapOpenMeteoCode(cur.WeatherCode)

	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: cur.Temperature,
		FeelsLikeC:   cur.FeelsLike,
		TempMinC:     valueOr(cur.Temperature, 0),
		TempMaxC:     valueOr(cur.Temperature, 0),
		HumidityPct:  cur.Humidity,
		WindSpeedMS:  cur.WindSpeed,
		WindDeg:      cur.WindDeg,
		PressureHpa:  cur.Pressure,
		VisibilityM:  roundMeters(cur.Visibility),
		CloudsPct:    cur.CloudCover,
		Condition:    cond,
		Description:  desc,
		Icon:         icon,
	}, nil
}

// FetchForecast returns five days of hourly data sampled every three hours.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.ForecastEntry, error) {
	var payload struct {
		Hourly struct {
			Time        []int64    `json:"time"`
			Temperature []float64  `json:"temperature_2m"`
			Humidity    []float64  `json:"relative_humidity_2m"`
			WeatherCode []int      `json:"weather_code"`
			CloudCover  []float64  `json:"cloud_cover"`
			Pressure    []float64  `json:"pressure_msl"`
			WindSpeed   []float64  `json:"wind_speed_10m"`
			WindDeg     []float64  `json:"wind_direction_10m"`
			PrecipProb  []*float64 `json:"precipitation_probability"`
		} `json:"hourly"`
	}

	u := p.url(loc, url.Values{
		"hourly":        {"temperature_2m,relative_humidity_2m,weather_code,cloud_cover,pressure_msl,wind_speed_10m,wind_direction_10m,precipitation_probability"},
		"forecast_days": {strconv.Itoa(weather.MaxForecastDays)},
	})
	if err := getJSON(ctx, p.name, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	at := func(xs []float64, i int) float64 {
		if i < len(xs) {
			return xs[i]
		}
		return 0
	}

	var entries []weather.ForecastEntry
	for i := 0; i < len(h.Time); i += 3 {
		code := 0
		if i < len(h.WeatherCode) {
			code = h.WeatherCode[i]
		}
		cond, desc, icon := mapOpenMeteoCode(code)

		e := weather.ForecastEntry{
			Timestamp:    time.Unix(h.Time[i], 0).UTC(),
			TemperatureC: at(h.Temperature, i),
			TempMinC:     at(h.Temperature, i),
			TempMaxC:     at(h.Temperature, i),
			HumidityPct:  at(h.Humidity, i),
			PressureHpa:  at(h.Pressure, i),
			WindSpeedMS:  at(h.WindSpeed, i),
			CloudsPct:    at(h.CloudCover, i),
			Condition:    cond,
			Description:  desc,
			Icon:         icon,
		}
		if i < len(h.WindDeg) {
			deg := h.WindDeg[i]
			e.WindDeg = &deg
		}
		if i < len(h.PrecipProb) && h.PrecipProb[i] != nil {
			e.PrecipProb = *h.PrecipProb[i] / 100
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func roundMeters(v *float64) *int {
	if v == nil {
		return nil
	}
	m := int(math.Round(*v))
	return &m
}

// mapOpenMeteoCode translates a WMO weather code into an OpenWeatherMap-style
// category, description and icon.
func mapOpenMeteoCode(code int) (weather.Condition, string, string) {
	switch {
	case code == 0:
		return weather.ConditionClear, "clear sky", "01d"
	case code == 1:
		return weather.ConditionClouds, "few clouds", "02d"
	case code == 2:
		return weather.ConditionClouds, "scattered clouds", "03d"
	case code == 3:
		return weather.ConditionClouds, "overcast clouds", "04d"
	case code == 45 || code == 48:
		return weather.ConditionFog, "fog", "50d"
	case code >= 51 && code <= 57:
		return weather.ConditionDrizzle, "drizzle", "09d"
	case code == 61:
		return weather.ConditionRain, "light rain", "10d"
	case code == 63:
		return weather.ConditionRain, "moderate rain", "10d"
	case code == 65:
		return weather.ConditionRain, "heavy intensity rain", "10d"
	case code == 66 || code == 67:
		return weather.ConditionRain, "freezing rain", "13d"
	case code >= 71 && code <= 77:
		return weather.ConditionSnow, "snow", "13d"
	case code >= 80 && code <= 82:
		return weather.ConditionRain, "shower rain", "09d"
	case code == 85 || code == 86:
		return weather.ConditionSnow, "shower snow", "13d"
	case code == 95:
		return weather.ConditionThunderstorm, "thunderstorm", "11d"
	case code == 96 || code == 99:
		return weather.ConditionThunderstorm, "thunderstorm with hail", "11d"
	default:
		return weather.ConditionUnknown, "", ""
	}
}
