package weather

import (
	"fmt"
	"time"

	"github.com/dhiaMK/tunisia-weather/internal/marine"
)

// Condition is a high-level weather category, using OpenWeatherMap's "main"
// labels as the canonical vocabulary.
type Condition string

const (
	ConditionUnknown      Condition = "Unknown"
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
)

// Location is a point for which weather is requested.
type Location struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Key returns a canonical string key for indexing this location in stores.
// Coordinates are rounded to roughly 100 m so nearby requests share a key.
func (l Location) Key() string {
	return fmt.Sprintf("%.3f,%.3f", l.Lat, l.Lon)
}

// Conditions is the normalized, aggregated current weather for a location.
type Conditions struct {
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"` // observation time, UTC
	FetchedAt time.Time `json:"fetchedAt"`

	TemperatureC *float64 `json:"temperatureC,omitempty"`
	FeelsLikeC   float64  `json:"feelsLikeC"`
	TempMinC     float64  `json:"tempMinC"`
	TempMaxC     float64  `json:"tempMaxC"`
	HumidityPct  float64  `json:"humidityPercent"`
	PressureHpa  *float64 `json:"pressureHpa,omitempty"`
	WindSpeedMS  *float64 `json:"windSpeedMs,omitempty"`
	WindDeg      *float64 `json:"windDeg,omitempty"`
	VisibilityM  *int     `json:"visibilityM,omitempty"`
	CloudsPct    float64  `json:"cloudsPercent"`

	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`

	Sunrise *time.Time `json:"sunrise,omitempty"`
	Sunset  *time.Time `json:"sunset,omitempty"`

	// Providers contributing to this snapshot.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// Observation reduces the conditions to what the marine scorer reads.
// Absent optional fields become neutral values.
func (c Conditions) Observation() marine.Observation {
	obs := marine.Observation{
		TemperatureC: marine.NeutralTemperatureC,
		WindSpeedMS:  marine.NeutralWindSpeedMS,
		VisibilityM:  marine.NeutralVisibilityM,
		Category:     string(c.Condition),
		Description:  c.Description,
		HumidityPct:  int(c.HumidityPct + 0.5),
		PressureHpa:  marine.NeutralPressureHpa,
	}
	if c.TemperatureC != nil {
		obs.TemperatureC = *c.TemperatureC
	}
	if c.WindSpeedMS != nil {
		obs.WindSpeedMS = *c.WindSpeedMS
	}
	if c.VisibilityM != nil {
		obs.VisibilityM = *c.VisibilityM
	}
	if c.PressureHpa != nil {
		obs.PressureHpa = *c.PressureHpa
	}
	return obs
}

// ProviderContribution describes data coming from a single provider used in aggregation.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}

// ForecastEntry is one forecast step (three hours for OpenWeatherMap).
type ForecastEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
	TempMinC     float64   `json:"tempMinC"`
	TempMaxC     float64   `json:"tempMaxC"`
	HumidityPct  float64   `json:"humidityPercent"`
	PressureHpa  float64   `json:"pressureHpa"`
	WindSpeedMS  float64   `json:"windSpeedMs"`
	WindDeg      *float64  `json:"windDeg,omitempty"`
	CloudsPct    float64   `json:"cloudsPercent"`
	PrecipProb   float64   `json:"precipitationProb"` // 0..1
	Condition    Condition `json:"condition"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon,omitempty"`
}

// DailyForecast summarizes the forecast entries of one local calendar day.
type DailyForecast struct {
	Date          time.Time       `json:"date"`
	TempMinC      float64         `json:"tempMinC"`
	TempMaxC      float64         `json:"tempMaxC"`
	TempAvgC      float64         `json:"tempAvgC"`
	HumidityAvg   float64         `json:"humidityAvg"`
	WindSpeedAvg  float64         `json:"windSpeedAvg"`
	PrecipProbMax float64         `json:"precipitationProb"`
	Condition     Condition       `json:"condition"`
	Description   string          `json:"description"`
	Icon          string          `json:"icon"`
	Entries       []ForecastEntry `json:"entries"`
}

// Forecast is the multi-day forecast for a location, oldest day first.
type Forecast struct {
	Location Location        `json:"location"`
	Provider string          `json:"provider"`
	Days     []DailyForecast `json:"days"`
}

// Alert severities, most severe first.
const (
	SeveritySevere   = "severe"
	SeverityModerate = "moderate"
	SeverityMinor    = "minor"
)

// Alert is an official (or demonstration) weather warning.
type Alert struct {
	SenderName  string    `json:"senderName"`
	Event       string    `json:"event"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Severity    string    `json:"severity"`
	Mock        bool      `json:"mock,omitempty"`
}

// MarineReport pairs the current conditions with their marine assessment.
type MarineReport struct {
	Location    Location           `json:"location"`
	Conditions  Conditions         `json:"conditions"`
	Observation marine.Observation `json:"observation"`
	Assessment  marine.Assessment  `json:"assessment"`
}

// Dashboard is everything the weather page shows for one city.
type Dashboard struct {
	Location Location          `json:"location"`
	Current  Conditions        `json:"current"`
	Marine   marine.Assessment `json:"marine"`
	Forecast *Forecast         `json:"forecast,omitempty"`
	Alerts   []Alert           `json:"alerts"`
}
