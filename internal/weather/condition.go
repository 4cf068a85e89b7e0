package weather

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var knownConditions = map[Condition]bool{
	ConditionClear:        true,
	ConditionClouds:       true,
	ConditionRain:         true,
	ConditionDrizzle:      true,
	ConditionThunderstorm: true,
	ConditionSnow:         true,
	ConditionMist:         true,
	ConditionFog:          true,
}

// ParseCondition canonicalizes a provider category label ("rain", "RAIN",
// " Rain ") into a Condition. Haze, smoke and similar atmosphere labels are
// folded into Mist.
func ParseCondition(label string) Condition {
	label = strings.TrimSpace(label)
	if label == "" {
		return ConditionUnknown
	}

	// cases.Caser is not safe for concurrent use.
	c := Condition(cases.Title(language.English).String(label))
	if knownConditions[c] {
		return c
	}
	switch c {
	case "Haze", "Smoke", "Dust", "Sand", "Ash", "Squall", "Tornado":
		return ConditionMist
	case "Cloudy", "Overcast":
		return ConditionClouds
	}
	return ConditionUnknown
}
