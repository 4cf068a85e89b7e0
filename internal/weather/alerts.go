package weather

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dhiaMK/tunisia-weather/internal/common"
)

// ClassifySeverity grades an alert from its event name and tags.
func ClassifySeverity(event string, tags []string) string {
	for _, tag := range tags {
		if common.HasAny(tag, "severe", "extreme", "major") {
			return SeveritySevere
		}
	}
	switch {
	case common.HasAny(event, "severe", "extreme"):
		return SeveritySevere
	case common.HasAny(event, "moderate", "warning"):
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

const mockAlertSender = "Tunisia Meteorological Institute"

type alertTemplate struct {
	event       string
	description string // %s is the city name
	tags        []string
}

var mockAlertTemplates = []alertTemplate{
	{
		event:       "High Wind Warning",
		description: "Strong winds expected in %s area. Winds may reach 60-80 km/h with gusts up to 100 km/h. Secure loose objects and avoid outdoor activities.",
		tags:        []string{"Wind", "Moderate"},
	},
	{
		event:       "Heavy Rain Advisory",
		description: "Heavy rainfall expected in %s. Rainfall amounts of 25-50mm possible. Watch for localized flooding in low-lying areas.",
		tags:        []string{"Rain", "Minor"},
	},
	{
		event:       "Thunderstorm Watch",
		description: "Conditions favorable for thunderstorm development near %s. Lightning, heavy rain, and strong winds possible.",
		tags:        []string{"Thunderstorm", "Moderate"},
	},
	{
		event:       "Heat Advisory",
		description: "Excessive heat warning for %s area. Temperatures may reach 40°C or higher. Stay hydrated and avoid prolonged sun exposure.",
		tags:        []string{"Heat", "Severe"},
	},
}

// MockAlerts returns, with a 30% chance, one demonstration alert for a city
// lasting six hours from now. It is used only when the real alert feed is
// unavailable and demonstration alerts are enabled.
func MockAlerts(cityName string, now time.Time, rng *rand.Rand) []Alert {
	alerts := []Alert{}
	if rng.Float64() <= 0.7 {
		return alerts
	}

	tpl := mockAlertTemplates[rng.Intn(len(mockAlertTemplates))]
	tags := append([]string(nil), tpl.tags...)
	alerts = append(alerts, Alert{
		SenderName:  mockAlertSender,
		Event:       tpl.event,
		Start:       now.UTC(),
		End:         now.UTC().Add(6 * time.Hour),
		Description: fmt.Sprintf(tpl.description, cityName),
		Tags:        tags,
		Severity:    ClassifySeverity(tpl.event, tags),
		Mock:        true,
	})
	return alerts
}
