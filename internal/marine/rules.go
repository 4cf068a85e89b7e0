package marine

import "strings"

// rule is one penalty tier. Rules sharing a group are alternatives: only the
// first matching rule of a group fires. Rules in different groups stack.
// Groups are named after the weather quantity they read.
type rule struct {
	Group   string
	Penalty int
	Reason  string
	Applies func(o Observation) bool
}

const (
	categoryThunderstorm = "Thunderstorm"
	categoryRain         = "Rain"
)

const lowPressureReason = "Low atmospheric pressure indicates unstable weather"

func stormDescribed(o Observation) bool {
	return strings.Contains(o.Description, "storm")
}

// swimmingRules are evaluated in order; reasons keep this order.
var swimmingRules = []rule{
	{"temperature", 40, "Water temperature too cold for comfortable swimming",
		func(o Observation) bool { return o.TemperatureC < 18 }},
	{"temperature", 20, "Water temperature is cool, may be uncomfortable",
		func(o Observation) bool { return o.TemperatureC < 22 }},
	{"temperature", 15, "Very hot weather, risk of heat exhaustion",
		func(o Observation) bool { return o.TemperatureC > 35 }},

	{"wind", 30, "Strong winds creating rough sea conditions",
		func(o Observation) bool { return o.WindSpeedMS > 8 }},
	{"wind", 15, "Moderate winds may create choppy waters",
		func(o Observation) bool { return o.WindSpeedMS > 5 }},

	{"category", 60, "Thunderstorms present - lightning danger",
		func(o Observation) bool { return o.Category == categoryThunderstorm }},
	{"category", 25, "Rainy conditions reduce swimming enjoyment",
		func(o Observation) bool { return o.Category == categoryRain }},
	{"storm", 40, "Storm conditions make swimming dangerous", stormDescribed},

	{"visibility", 20, "Poor visibility conditions",
		func(o Observation) bool { return o.VisibilityM < 5000 }},

	{"pressure", 15, lowPressureReason,
		func(o Observation) bool { return o.PressureHpa < 1000 }},
}

var sailingRules = []rule{
	{"wind", 30, "Insufficient wind for sailing",
		func(o Observation) bool { return o.WindSpeedMS < 2 }},
	{"wind", 15, "Light winds, slow sailing conditions",
		func(o Observation) bool { return o.WindSpeedMS < 4 }},
	{"wind", 40, "Strong winds dangerous for recreational sailing",
		func(o Observation) bool { return o.WindSpeedMS > 12 }},
	{"wind", 20, "Strong winds require experienced sailors",
		func(o Observation) bool { return o.WindSpeedMS > 8 }},

	{"category", 70, "Thunderstorms extremely dangerous for sailing",
		func(o Observation) bool { return o.Category == categoryThunderstorm }},
	{"storm", 50, "Storm conditions unsafe for sailing", stormDescribed},
	{"category", 20, "Rain reduces visibility and comfort",
		func(o Observation) bool { return o.Category == categoryRain && !stormDescribed(o) }},

	{"visibility", 40, "Very poor visibility dangerous for navigation",
		func(o Observation) bool { return o.VisibilityM < 3000 }},
	{"visibility", 20, "Reduced visibility affects navigation",
		func(o Observation) bool { return o.VisibilityM < 8000 }},

	{"pressure", 15, lowPressureReason,
		func(o Observation) bool { return o.PressureHpa < 1000 }},
}

// scoreFromRules starts at 100 and subtracts every fired rule's penalty.
// The returned score is clamped to [0, 100].
func scoreFromRules(o Observation, rules []rule) (int, []string) {
	score := 100
	reasons := []string{}
	fired := make(map[string]bool, len(rules))

	for _, r := range rules {
		if fired[r.Group] || !r.Applies(o) {
			continue
		}
		fired[r.Group] = true
		score -= r.Penalty
		reasons = append(reasons, r.Reason)
	}

	return clamp(score), reasons
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
