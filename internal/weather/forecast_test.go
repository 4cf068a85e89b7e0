package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(ts time.Time, temp float64, cond Condition, desc string, pop float64) ForecastEntry {
	return ForecastEntry{
		Timestamp:    ts,
		TemperatureC: temp,
		TempMinC:     temp - 1,
		TempMaxC:     temp + 1,
		HumidityPct:  50,
		WindSpeedMS:  temp / 10,
		PrecipProb:   pop,
		Condition:    cond,
		Description:  desc,
		Icon:         string(cond),
	}
}

func TestBucketByDayGroupsByLocalDay(t *testing.T) {
	// 23:30 UTC is already the next day in Tunis.
	day1 := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	entries := []ForecastEntry{
		entry(day1.Add(11*time.Hour+30*time.Minute), 22, ConditionClear, "clear sky", 0),
		entry(day1, 30, ConditionClear, "clear sky", 0.1),
		entry(day1.Add(3*time.Hour), 28, ConditionRain, "light rain", 0.6),
	}

	days := BucketByDay(entries, TunisTime, 5)
	require.Len(t, days, 2)

	first := days[0]
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, TunisTime), first.Date)
	assert.Len(t, first.Entries, 2)
	assert.Equal(t, 27.0, first.TempMinC)
	assert.Equal(t, 31.0, first.TempMaxC)
	assert.Equal(t, 29.0, first.TempAvgC)
	assert.Equal(t, 0.6, first.PrecipProbMax)
	assert.InDelta(t, 2.9, first.WindSpeedAvg, 1e-9)

	second := days[1]
	assert.Equal(t, time.Date(2025, 7, 2, 0, 0, 0, 0, TunisTime), second.Date)
	assert.Len(t, second.Entries, 1)
}

func TestBucketByDayDominantCondition(t *testing.T) {
	base := time.Date(2025, 7, 1, 6, 0, 0, 0, TunisTime)
	entries := []ForecastEntry{
		entry(base, 20, ConditionClouds, "few clouds", 0),
		entry(base.Add(3*time.Hour), 22, ConditionRain, "light rain", 0),
		entry(base.Add(6*time.Hour), 24, ConditionRain, "moderate rain", 0),
		entry(base.Add(9*time.Hour), 24, ConditionClear, "clear sky", 0),
		entry(base.Add(12*time.Hour), 21, ConditionClear, "clear sky", 0),
	}

	days := BucketByDay(entries, TunisTime, 5)
	require.Len(t, days, 1)

	// Rain and Clear both appear twice; Clear was seen last.
	assert.Equal(t, ConditionClear, days[0].Condition)
	assert.Equal(t, "clear sky", days[0].Description)
	assert.Equal(t, string(ConditionClear), days[0].Icon)

	entries = append(entries, entry(base.Add(15*time.Hour), 20, ConditionRain, "light rain", 0))
	days = BucketByDay(entries, TunisTime, 5)
	assert.Equal(t, ConditionRain, days[0].Condition)
	assert.Equal(t, "light rain", days[0].Description)
}

func TestBucketByDayLimitsDays(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, TunisTime)
	var entries []ForecastEntry
	for i := 0; i < 7; i++ {
		entries = append(entries, entry(base.AddDate(0, 0, i), 25, ConditionClear, "clear sky", 0))
	}

	assert.Len(t, BucketByDay(entries, TunisTime, 5), 5)
	assert.Len(t, BucketByDay(entries, TunisTime, 2), 2)
	assert.Len(t, BucketByDay(entries, TunisTime, 0), MaxForecastDays)
	assert.Empty(t, BucketByDay(nil, TunisTime, 5))
}

func TestBucketByDayDefaultIcon(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	e := entry(base, 25, ConditionClear, "clear sky", 0)
	e.Icon = ""

	days := BucketByDay([]ForecastEntry{e}, nil, 5)
	require.Len(t, days, 1)
	assert.Equal(t, "01d", days[0].Icon)
}
