package weather

import (
	"math"
	"sort"
	"time"
)

// TunisTime is the dashboard's local zone. Tunisia stays on UTC+1 all year.
var TunisTime = time.FixedZone("Africa/Tunis", 60*60)

// MaxForecastDays is how many daily summaries a forecast carries at most.
const MaxForecastDays = 5

// BucketByDay groups forecast entries by calendar day in tz and summarizes
// each day. At most maxDays days are returned, oldest first.
//
// The dominant condition of a day is its most frequent one; among equally
// frequent conditions the one first seen last wins.
func BucketByDay(entries []ForecastEntry, tz *time.Location, maxDays int) []DailyForecast {
	if tz == nil {
		tz = time.UTC
	}
	if maxDays <= 0 {
		maxDays = MaxForecastDays
	}

	sorted := make([]ForecastEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	type dayKey string

	var order []dayKey
	byDay := make(map[dayKey][]ForecastEntry)
	for _, e := range sorted {
		k := dayKey(e.Timestamp.In(tz).Format("2006-01-02"))
		if _, ok := byDay[k]; !ok {
			if len(order) == maxDays {
				break
			}
			order = append(order, k)
		}
		byDay[k] = append(byDay[k], e)
	}

	days := make([]DailyForecast, 0, len(order))
	for _, k := range order {
		days = append(days, summarizeDay(byDay[k], tz))
	}
	return days
}

func summarizeDay(entries []ForecastEntry, tz *time.Location) DailyForecast {
	first := entries[0].Timestamp.In(tz)
	d := DailyForecast{
		Date:     time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, tz),
		TempMinC: math.Inf(1),
		TempMaxC: math.Inf(-1),
		Entries:  entries,
	}

	var sumTemp, sumHumidity, sumWind float64
	counts := make(map[Condition]int)
	var seen []Condition

	for _, e := range entries {
		d.TempMinC = math.Min(d.TempMinC, e.TempMinC)
		d.TempMaxC = math.Max(d.TempMaxC, e.TempMaxC)
		d.PrecipProbMax = math.Max(d.PrecipProbMax, e.PrecipProb)
		sumTemp += e.TemperatureC
		sumHumidity += e.HumidityPct
		sumWind += e.WindSpeedMS

		if _, ok := counts[e.Condition]; !ok {
			seen = append(seen, e.Condition)
		}
		counts[e.Condition]++
	}

	n := float64(len(entries))
	d.TempAvgC = sumTemp / n
	d.HumidityAvg = sumHumidity / n
	d.WindSpeedAvg = sumWind / n

	best := 0
	for _, c := range seen {
		if counts[c] >= best {
			best = counts[c]
			d.Condition = c
		}
	}

	d.Icon = "01d"
	for _, e := range entries {
		if e.Condition == d.Condition {
			d.Description = e.Description
			if e.Icon != "" {
				d.Icon = e.Icon
			}
			break
		}
	}

	return d
}
