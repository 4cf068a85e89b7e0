// Package marine scores how safe current weather is for swimming and sailing.
package marine

// Activity is a marine activity that gets its own assessment.
type Activity string

const (
	Swimming Activity = "swimming"
	Sailing  Activity = "sailing"
)

// Status is the five-level qualitative label derived from a score.
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusFair      Status = "fair"
	StatusPoor      Status = "poor"
	StatusDangerous Status = "dangerous"
)

// ActivityAssessment is the outcome for one activity.
type ActivityAssessment struct {
	Status         Status   `json:"status"`
	Score          int      `json:"score"`
	Reasons        []string `json:"reasons"`
	Recommendation string   `json:"recommendation"`
}

// Assessment holds both activity assessments for one observation.
type Assessment struct {
	Swimming ActivityAssessment `json:"swimming"`
	Sailing  ActivityAssessment `json:"sailing"`
}

var recommendations = map[Activity]map[Status]string{
	Swimming: {
		StatusExcellent: "Perfect conditions for swimming! Enjoy the water safely.",
		StatusGood:      "Good swimming conditions. Take normal precautions.",
		StatusFair:      "Swimming possible but be cautious of conditions.",
		StatusPoor:      "Swimming not recommended. Consider other activities.",
		StatusDangerous: "Do not swim! Dangerous conditions present.",
	},
	Sailing: {
		StatusExcellent: "Excellent sailing conditions! Perfect for fishing trips.",
		StatusGood:      "Good sailing weather. Ideal for experienced sailors.",
		StatusFair:      "Sailing possible but requires caution and experience.",
		StatusPoor:      "Sailing not recommended. Stay in harbor.",
		StatusDangerous: "Do not sail! Dangerous conditions - stay on shore.",
	},
}

// StatusForScore maps a score onto the status scale.
func StatusForScore(score int) Status {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 65:
		return StatusGood
	case score >= 45:
		return StatusFair
	case score >= 25:
		return StatusPoor
	default:
		return StatusDangerous
	}
}

// Recommendation returns the advice text for an activity at a status.
func Recommendation(a Activity, s Status) string {
	return recommendations[a][s]
}

// Assess scores an observation for both activities. It never fails: absent or
// malformed fields are treated as neutral.
func Assess(o Observation) Assessment {
	o = o.normalized()
	return Assessment{
		Swimming: assessActivity(o, Swimming),
		Sailing:  assessActivity(o, Sailing),
	}
}

func assessActivity(o Observation, a Activity) ActivityAssessment {
	var rules []rule
	if a == Swimming {
		rules = swimmingRules
	} else {
		rules = sailingRules
	}

	score, reasons := scoreFromRules(o, rules)
	status := StatusForScore(score)
	return ActivityAssessment{
		Status:         status,
		Score:          score,
		Reasons:        reasons,
		Recommendation: Recommendation(a, status),
	}
}
