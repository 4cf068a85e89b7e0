package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

// OpenWeatherProvider implements weather.Provider, weather.ForecastProvider
// and weather.AlertProvider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// OpenWeatherBaseURL is the production API root.
const OpenWeatherBaseURL = "https://api.openweathermap.org/data"

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: OpenWeatherBaseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

// WithBaseURL points the provider at another API root, e.g. a test server.
func (p *OpenWeatherProvider) WithBaseURL(u string) *OpenWeatherProvider {
	p.baseURL = u
	return p
}

// WithBackoff overrides the retry policy.
func (p *OpenWeatherProvider) WithBackoff(b BackoffConfig) *OpenWeatherProvider {
	p.httpCfg.Backoff = b
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) url(path string, loc weather.Location, extra url.Values) string {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	values.Set("appid", p.apiKey)
	for k, v := range extra {
		values[k] = v
	}
	return fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func firstCondition(items []owmCondition) (weather.Condition, string, string) {
	if len(items) == 0 {
		return weather.ConditionUnknown, "", ""
	}
	return weather.ParseCondition(items[0].Main), items[0].Description, items[0].Icon
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("openweather api key is not configured")
	}

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      *float64 `json:"temp"`
			FeelsLike float64  `json:"feels_like"`
			TempMin   float64  `json:"temp_min"`
			TempMax   float64  `json:"temp_max"`
			Humidity  float64  `json:"humidity"`
			Pressure  *float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed *float64 `json:"speed"`
			Deg   *float64 `json:"deg"`
		} `json:"wind"`
		Visibility *int `json:"visibility"`
		Clouds     struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Sys struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
		Weather []owmCondition `json:"weather"`
	}

	u := p.url("/2.5/weather", loc, url.Values{"units": {"metric"}})
	if err := getJSON(ctx, p.name, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	cond, desc, icon := firstCondition(payload.Weather)

	r := weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: payload.Main.Temp,
		FeelsLikeC:   payload.Main.FeelsLike,
		TempMinC:     payload.Main.TempMin,
		TempMaxC:     payload.Main.TempMax,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		WindDeg:      payload.Wind.Deg,
		PressureHpa:  payload.Main.Pressure,
		VisibilityM:  payload.Visibility,
		CloudsPct:    payload.Clouds.All,
		Condition:    cond,
		Description:  desc,
		Icon:         icon,
	}
	if payload.Sys.Sunrise > 0 && payload.Sys.Sunset > 0 {
		sunrise := time.Unix(payload.Sys.Sunrise, 0).UTC()
		sunset := time.Unix(payload.Sys.Sunset, 0).UTC()
		r.Sunrise, r.Sunset = &sunrise, &sunset
	}
	return r, nil
}

// FetchForecast returns the 5-day / 3-hour forecast.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.ForecastEntry, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				TempMin  float64 `json:"temp_min"`
				TempMax  float64 `json:"temp_max"`
				Humidity float64 `json:"humidity"`
				Pressure float64 `json:"pressure"`
			} `json:"main"`
			Weather []owmCondition `json:"weather"`
			Wind    struct {
				Speed float64  `json:"speed"`
				Deg   *float64 `json:"deg"`
			} `json:"wind"`
			Clouds struct {
				All float64 `json:"all"`
			} `json:"clouds"`
			Pop float64 `json:"pop"`
		} `json:"list"`
	}

	u := p.url("/2.5/forecast", loc, url.Values{"units": {"metric"}})
	if err := getJSON(ctx, p.name, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	entries := make([]weather.ForecastEntry, 0, len(payload.List))
	for _, item := range payload.List {
		cond, desc, icon := firstCondition(item.Weather)
		entries = append(entries, weather.ForecastEntry{
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			TemperatureC: item.Main.Temp,
			TempMinC:     item.Main.TempMin,
			TempMaxC:     item.Main.TempMax,
			HumidityPct:  item.Main.Humidity,
			PressureHpa:  item.Main.Pressure,
			WindSpeedMS:  item.Wind.Speed,
			WindDeg:      item.Wind.Deg,
			CloudsPct:    item.Clouds.All,
			PrecipProb:   item.Pop,
			Condition:    cond,
			Description:  desc,
			Icon:         icon,
		})
	}
	return entries, nil
}

// FetchAlerts reads alerts from the One Call 3.0 API, which needs a
// subscription; callers treat errors as "no feed".
func (p *OpenWeatherProvider) FetchAlerts(ctx context.Context, loc weather.Location) ([]weather.Alert, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	var payload struct {
		Alerts []struct {
			SenderName  string   `json:"sender_name"`
			Event       string   `json:"event"`
			Start       int64    `json:"start"`
			End         int64    `json:"end"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		} `json:"alerts"`
	}

	u := p.url("/3.0/onecall", loc, url.Values{"exclude": {"minutely,hourly,daily"}})
	if err := getJSON(ctx, p.name, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	alerts := make([]weather.Alert, 0, len(payload.Alerts))
	for _, a := range payload.Alerts {
		tags := a.Tags
		if tags == nil {
			tags = []string{}
		}
		alerts = append(alerts, weather.Alert{
			SenderName:  a.SenderName,
			Event:       a.Event,
			Start:       time.Unix(a.Start, 0).UTC(),
			End:         time.Unix(a.End, 0).UTC(),
			Description: a.Description,
			Tags:        tags,
		})
	}
	return alerts, nil
}
