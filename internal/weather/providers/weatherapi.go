package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dhiaMK/tunisia-weather/internal/common"
	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("weatherapi"),
	}
}

// WithBaseURL points the provider at another endpoint, e.g. a test server.
func (p *WeatherAPIProvider) WithBaseURL(u string) *WeatherAPIProvider {
	p.baseURL = u
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; it accepts "lat,lon".
	values.Set("q", fmt.Sprintf("%f,%f", loc.Lat, loc.Lon))
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload struct {
		Current struct {
			LastUpdatedEpoch int64    `json:"last_updated_epoch"`
			TempC            *float64 `json:"temp_c"`
			FeelsLikeC       float64  `json:"feelslike_c"`
			Humidity         float64  `json:"humidity"`
			WindKph          *float64 `json:"wind_kph"`
			WindDegree       *float64 `json:"wind_degree"`
			PressureMb       *float64 `json:"pressure_mb"`
			VisKm            *float64 `json:"vis_km"`
			Cloud            float64  `json:"cloud"`
			Condition        struct {
				Text string `json:"text"`
				Icon string `json:"icon"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := getJSON(ctx, p.name, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	cur := payload.Current
	ts := time.Now().UTC()
	if cur.LastUpdatedEpoch > 0 {
		ts = time.Unix(cur.LastUpdatedEpoch, 0).UTC()
	}

	cond := mapWeatherAPICondition(cur.Condition.Text)
	r := weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: cur.TempC,
		FeelsLikeC:   cur.FeelsLikeC,
		TempMinC:     valueOr(cur.TempC, 0),
		TempMaxC:     valueOr(cur.TempC, 0),
		HumidityPct:  cur.Humidity,
		WindDeg:      cur.WindDegree,
		PressureHpa:  cur.PressureMb,
		CloudsPct:    cur.Cloud,
		Condition:    cond,
		Description:  strings.ToLower(strings.TrimSpace(cur.Condition.Text)),
		Icon:         weatherAPIIcon(cond, cur.Condition.Text, cur.Condition.Icon),
	}
	if cur.WindKph != nil {
		ms := *cur.WindKph / 3.6
		r.WindSpeedMS = &ms
	}
	if cur.VisKm != nil {
		m := int(math.Round(*cur.VisKm * 1000))
		r.VisibilityM = &m
	}
	return r, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAny(text, "thunder"):
		return weather.ConditionThunderstorm
	case common.HasAny(text, "drizzle"):
		return weather.ConditionDrizzle
	case common.HasAny(text, "rain", "shower"):
		return weather.ConditionRain
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.HasAny(text, "fog"):
		return weather.ConditionFog
	case common.HasAny(text, "mist"):
		return weather.ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return weather.ConditionClouds
	case common.HasAny(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}

// weatherAPIIcon translates a WeatherAPI condition into the OpenWeatherMap
// icon code the dashboard renders. The day or night variant comes from the
// WeatherAPI icon path, e.g. "//cdn.weatherapi.com/weather/64x64/night/113.png".
func weatherAPIIcon(cond weather.Condition, text, iconPath string) string {
	var code string
	switch cond {
	case weather.ConditionClear:
		code = "01"
	case weather.ConditionClouds:
		switch {
		case common.HasAny(text, "partly"):
			code = "02"
		case common.HasAny(text, "overcast"):
			code = "04"
		default:
			code = "03"
		}
	case weather.ConditionDrizzle:
		code = "09"
	case weather.ConditionRain:
		code = "10"
	case weather.ConditionThunderstorm:
		code = "11"
	case weather.ConditionSnow:
		code = "13"
	case weather.ConditionMist, weather.ConditionFog:
		code = "50"
	default:
		return ""
	}

	if path.Base(path.Dir(iconPath)) == "night" {
		return code + "n"
	}
	return code + "d"
}
