package weather

import (
	"math"
	"time"
)

// AggregateReadings combines multiple provider readings into a single Conditions value.
// Numeric fields are averaged; optional fields are averaged over the readings
// that carry them and stay absent otherwise. The condition is chosen by
// majority, ties going to the reading that came first; description and icon
// come from the first readings of that condition that carry them.
func AggregateReadings(loc Location, readings []ProviderReading) Conditions {
	if len(readings) == 0 {
		return Conditions{
			Location:  loc,
			Timestamp: time.Now().UTC(),
			Condition: ConditionUnknown,
		}
	}

	var (
		sumFeels, sumMin, sumMax, sumHumidity, sumClouds float64
		temp, wind, pressure, windDeg, visibility        mean
	)

	conditionCounts := make(map[Condition]int)
	var conditionOrder []Condition
	providers := make([]ProviderContribution, 0, len(readings))
	var newestTS time.Time

	for _, r := range readings {
		sumFeels += r.FeelsLikeC
		sumMin += r.TempMinC
		sumMax += r.TempMaxC
		sumHumidity += r.HumidityPct
		sumClouds += r.CloudsPct

		temp.addPtr(r.TemperatureC)
		wind.addPtr(r.WindSpeedMS)
		pressure.addPtr(r.PressureHpa)
		windDeg.addPtr(r.WindDeg)
		if r.VisibilityM != nil {
			visibility.add(float64(*r.VisibilityM))
		}

		if _, seen := conditionCounts[r.Condition]; !seen {
			conditionOrder = append(conditionOrder, r.Condition)
		}
		conditionCounts[r.Condition]++

		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}

		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    r.Timestamp,
		})
	}

	n := float64(len(readings))

	// Pick majority condition.
	bestCond := ConditionUnknown
	bestCount := 0
	for _, cond := range conditionOrder {
		if count := conditionCounts[cond]; count > bestCount {
			bestCount = count
			bestCond = cond
		}
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	c := Conditions{
		Location:     loc,
		Timestamp:    newestTS,
		TemperatureC: temp.value(),
		FeelsLikeC:   sumFeels / n,
		TempMinC:     sumMin / n,
		TempMaxC:     sumMax / n,
		HumidityPct:  sumHumidity / n,
		WindSpeedMS:  wind.value(),
		CloudsPct:    sumClouds / n,
		PressureHpa:  pressure.value(),
		WindDeg:      windDeg.value(),
		Condition:    bestCond,
		Providers:    providers,
	}
	if v := visibility.value(); v != nil {
		m := int(math.Round(*v))
		c.VisibilityM = &m
	}

	for _, r := range readings {
		if r.Condition != bestCond {
			continue
		}
		if c.Description == "" {
			c.Description = r.Description
		}
		if c.Icon == "" {
			c.Icon = r.Icon
		}
	}
	for _, r := range readings {
		if r.Sunrise != nil && r.Sunset != nil {
			c.Sunrise, c.Sunset = r.Sunrise, r.Sunset
			break
		}
	}

	return c
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m *mean) addPtr(v *float64) {
	if v != nil {
		m.add(*v)
	}
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}
