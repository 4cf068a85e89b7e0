package weather

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhiaMK/tunisia-weather/internal/marine"
)

type fakeProvider struct {
	name     string
	reading  ProviderReading
	err      error
	forecast []ForecastEntry
	fcErr    error
	calls    atomic.Int32
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context, loc Location) (ProviderReading, error) {
	f.calls.Add(1)
	if f.err != nil {
		return ProviderReading{}, f.err
	}
	r := f.reading
	r.ProviderName = f.name
	return r, nil
}

func (f *fakeProvider) FetchForecast(ctx context.Context, loc Location) ([]ForecastEntry, error) {
	return f.forecast, f.fcErr
}

type fakeAlertProvider struct {
	fakeProvider
	alerts []Alert
	alErr  error
}

func (f *fakeAlertProvider) FetchAlerts(ctx context.Context, loc Location) ([]Alert, error) {
	return f.alerts, f.alErr
}

// mapStore is a minimal Store for service tests.
type mapStore struct {
	mu   sync.Mutex
	data map[string]Conditions
}

func newMapStore() *mapStore { return &mapStore{data: map[string]Conditions{}} }

func (m *mapStore) SaveSnapshot(loc Location, c Conditions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[loc.Key()] = c
}

func (m *mapStore) GetLatest(loc Location) (Conditions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[loc.Key()]
	if !ok {
		return Conditions{}, errors.New("not found")
	}
	return c, nil
}

var monastir = Location{Name: "Monastir", Lat: 35.7643, Lon: 10.8113}

func stormyReading() ProviderReading {
	return ProviderReading{
		Timestamp:    time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		TemperatureC: ptr(28.0),
		WindSpeedMS:  ptr(15.0),
		PressureHpa:  ptr(1005.0),
		VisibilityM:  ptr(2000),
		Condition:    ConditionThunderstorm,
		Description:  "severe thunderstorm with damaging winds",
	}
}

func TestServiceCurrentUsesCache(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	p := &fakeProvider{name: "owm", reading: ProviderReading{TemperatureC: ptr(25.0), Condition: ConditionClear}}
	svc := NewService(newMapStore(), []Provider{p},
		WithCacheTTL(10*time.Minute),
		WithClock(func() time.Time { return clock }),
	)

	c, err := svc.Current(context.Background(), monastir)
	require.NoError(t, err)
	assert.Equal(t, ptr(25.0), c.TemperatureC)
	assert.Equal(t, now, c.FetchedAt)

	clock = now.Add(5 * time.Minute)
	_, err = svc.Current(context.Background(), monastir)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.calls.Load())

	clock = now.Add(11 * time.Minute)
	_, err = svc.Current(context.Background(), monastir)
	require.NoError(t, err)
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestServiceCurrentPartialFailure(t *testing.T) {
	bad := &fakeProvider{name: "bad", err: ErrRateLimited}
	good := &fakeProvider{name: "good", reading: ProviderReading{TemperatureC: ptr(19.0), Condition: ConditionRain}}
	svc := NewService(newMapStore(), []Provider{bad, good})

	c, err := svc.Current(context.Background(), monastir)
	require.NoError(t, err)
	assert.Equal(t, ptr(19.0), c.TemperatureC)
	require.Len(t, c.Providers, 1)
	assert.Equal(t, "good", c.Providers[0].ProviderName)
}

func TestServiceCurrentAllFailReturnsFirstError(t *testing.T) {
	first := &fakeProvider{name: "first", err: ErrUnauthorized}
	second := &fakeProvider{name: "second", err: ErrRateLimited}
	svc := NewService(nil, []Provider{first, second})

	_, err := svc.Current(context.Background(), monastir)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestServiceCurrentWithoutProviders(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Current(context.Background(), monastir)
	assert.ErrorIs(t, err, ErrNoProviders)
	assert.ErrorIs(t, svc.FetchAndStore(context.Background(), monastir), ErrNoProviders)
}

func TestServiceMarine(t *testing.T) {
	p := &fakeProvider{name: "owm", reading: stormyReading()}
	svc := NewService(nil, []Provider{p})

	report, err := svc.Marine(context.Background(), monastir)
	require.NoError(t, err)

	assert.Equal(t, monastir, report.Location)
	assert.Equal(t, 2000, report.Observation.VisibilityM)
	assert.Equal(t, "Thunderstorm", report.Observation.Category)
	assert.Equal(t, 0, report.Assessment.Sailing.Score)
	assert.Equal(t, marine.StatusDangerous, report.Assessment.Sailing.Status)
	assert.Equal(t, marine.StatusDangerous, report.Assessment.Swimming.Status)
}

func TestServiceMarinePartialReadings(t *testing.T) {
	full := ProviderReading{
		TemperatureC: ptr(26.0),
		WindSpeedMS:  ptr(5.0),
		PressureHpa:  ptr(1014.0),
		VisibilityM:  ptr(10000),
		Condition:    ConditionClear,
		Description:  "clear sky",
	}

	tests := map[string]func(r *ProviderReading){
		"no temperature": func(r *ProviderReading) { r.TemperatureC = nil },
		"no wind":        func(r *ProviderReading) { r.WindSpeedMS = nil },
		"no visibility":  func(r *ProviderReading) { r.VisibilityM = nil },
		"no pressure":    func(r *ProviderReading) { r.PressureHpa = nil },
		"only category": func(r *ProviderReading) {
			r.TemperatureC, r.WindSpeedMS, r.VisibilityM, r.PressureHpa = nil, nil, nil, nil
		},
	}

	for name, strip := range tests {
		t.Run(name, func(t *testing.T) {
			r := full
			strip(&r)
			svc := NewService(nil, []Provider{&fakeProvider{name: "owm", reading: r}})

			report, err := svc.Marine(context.Background(), monastir)
			require.NoError(t, err)

			assert.Equal(t, 100, report.Assessment.Swimming.Score)
			assert.Empty(t, report.Assessment.Swimming.Reasons)
			assert.Equal(t, 100, report.Assessment.Sailing.Score)
			assert.Empty(t, report.Assessment.Sailing.Reasons)
		})
	}
}

func TestServiceForecastFallsBack(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	primary := &fakeProvider{name: "primary", fcErr: ErrRateLimited}
	fallback := &fakeProvider{name: "fallback", forecast: []ForecastEntry{
		entry(base, 25, ConditionClear, "clear sky", 0),
		entry(base.AddDate(0, 0, 1), 26, ConditionClear, "clear sky", 0),
		entry(base.AddDate(0, 0, 2), 27, ConditionClear, "clear sky", 0),
	}}
	svc := NewService(nil, []Provider{primary, fallback})

	f, err := svc.Forecast(context.Background(), monastir, 2)
	require.NoError(t, err)
	assert.Equal(t, "fallback", f.Provider)
	assert.Len(t, f.Days, 2)
}

func TestServiceForecastErrors(t *testing.T) {
	svc := NewService(nil, []Provider{&fakeProvider{name: "p", fcErr: ErrUnauthorized}})

	_, err := svc.Forecast(context.Background(), monastir, 0)
	assert.Error(t, err)
	_, err = svc.Forecast(context.Background(), monastir, 6)
	assert.Error(t, err)

	_, err = svc.Forecast(context.Background(), monastir, 5)
	assert.ErrorIs(t, err, ErrUnauthorized)

	svc = NewService(nil, []Provider{&fakeProvider{name: "empty"}})
	_, err = svc.Forecast(context.Background(), monastir, 5)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestServiceAlerts(t *testing.T) {
	p := &fakeAlertProvider{
		fakeProvider: fakeProvider{name: "owm"},
		alerts:       []Alert{{Event: "Severe Thunderstorm Warning", Tags: []string{"Thunderstorm"}}},
	}
	svc := NewService(nil, []Provider{p})

	alerts := svc.Alerts(context.Background(), monastir)
	require.Len(t, alerts, 1)
	assert.Equal(t, SeveritySevere, alerts[0].Severity)
}

func TestServiceAlertsFeedFailure(t *testing.T) {
	p := &fakeAlertProvider{fakeProvider: fakeProvider{name: "owm"}, alErr: ErrUnauthorized}

	svc := NewService(nil, []Provider{p})
	alerts := svc.Alerts(context.Background(), monastir)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)

	// Seed 1 is chosen arbitrarily; draw until the 30% branch fires.
	svc = NewService(nil, []Provider{p}, WithMockAlerts(rand.New(rand.NewSource(1))))
	var mock []Alert
	for i := 0; i < 100 && len(mock) == 0; i++ {
		mock = svc.Alerts(context.Background(), monastir)
	}
	require.Len(t, mock, 1)
	assert.True(t, mock[0].Mock)
	assert.Contains(t, mock[0].Description, "Monastir")
}

func TestServiceDashboard(t *testing.T) {
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	p := &fakeAlertProvider{
		fakeProvider: fakeProvider{
			name:     "owm",
			reading:  ProviderReading{TemperatureC: ptr(25.0), WindSpeedMS: ptr(3.0), Condition: ConditionClear, Description: "clear sky"},
			forecast: []ForecastEntry{entry(base, 25, ConditionClear, "clear sky", 0)},
		},
	}
	svc := NewService(newMapStore(), []Provider{p})

	d, err := svc.Dashboard(context.Background(), monastir)
	require.NoError(t, err)

	assert.Equal(t, ptr(25.0), d.Current.TemperatureC)
	assert.Equal(t, 100, d.Marine.Swimming.Score)
	assert.Equal(t, 85, d.Marine.Sailing.Score)
	require.NotNil(t, d.Forecast)
	assert.Len(t, d.Forecast.Days, 1)
	assert.NotNil(t, d.Alerts)
}

func TestServiceDashboardForecastOptional(t *testing.T) {
	p := &fakeProvider{
		name:    "owm",
		reading: ProviderReading{TemperatureC: ptr(25.0), Condition: ConditionClear},
		fcErr:   ErrRateLimited,
	}
	svc := NewService(nil, []Provider{p})

	d, err := svc.Dashboard(context.Background(), monastir)
	require.NoError(t, err)
	assert.Nil(t, d.Forecast)

	failing := &fakeProvider{name: "owm", err: ErrUnauthorized}
	_, err = NewService(nil, []Provider{failing}).Dashboard(context.Background(), monastir)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
