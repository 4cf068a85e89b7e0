package marine

import (
	"math"
	"strings"
)

// Neutral values substituted for absent or malformed observation fields.
// None of them triggers a penalty for either activity.
const (
	NeutralTemperatureC = 25.0
	NeutralWindSpeedMS  = 5.0
	NeutralVisibilityM  = 10000
	NeutralPressureHpa  = 1013.25
)

// Observation is a single point-in-time weather reading for one location,
// reduced to the fields the scorer reads.
type Observation struct {
	TemperatureC float64 `json:"temperatureC"`
	WindSpeedMS  float64 `json:"windSpeedMs"`
	VisibilityM  int     `json:"visibilityM"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	HumidityPct  int     `json:"humidityPercent"` // not scored
	PressureHpa  float64 `json:"pressureHpa"`
}

// normalized returns a copy with malformed fields replaced by neutral values
// and the description lower-cased for substring matching.
func (o Observation) normalized() Observation {
	if !finite(o.TemperatureC) {
		o.TemperatureC = NeutralTemperatureC
	}
	if !finite(o.WindSpeedMS) || o.WindSpeedMS < 0 {
		o.WindSpeedMS = NeutralWindSpeedMS
	}
	if o.VisibilityM < 0 {
		o.VisibilityM = NeutralVisibilityM
	}
	if !finite(o.PressureHpa) || o.PressureHpa <= 0 {
		o.PressureHpa = NeutralPressureHpa
	}
	o.Category = strings.TrimSpace(o.Category)
	o.Description = strings.ToLower(o.Description)
	return o
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
