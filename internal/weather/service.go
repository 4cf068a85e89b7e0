package weather

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dhiaMK/tunisia-weather/internal/marine"
)

// Service orchestrates fetching from providers and caching snapshots.
type Service struct {
	store     Store
	providers []Provider

	cacheTTL time.Duration
	tz       *time.Location
	now      func() time.Time

	mockAlerts bool
	rngMu      sync.Mutex
	rng        *rand.Rand
}

// Option customizes a Service.
type Option func(*Service)

// WithCacheTTL serves cached conditions younger than ttl instead of calling
// providers. Zero disables the cache lookup; snapshots are still saved.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cacheTTL = ttl }
}

// WithMockAlerts enables demonstration alerts when no alert feed answers.
// A nil rng is seeded from the clock.
func WithMockAlerts(rng *rand.Rand) Option {
	return func(s *Service) {
		s.mockAlerts = true
		s.rng = rng
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTimeZone sets the zone forecast days are bucketed in.
func WithTimeZone(tz *time.Location) Option {
	return func(s *Service) { s.tz = tz }
}

// NewService creates a new Service.
func NewService(store Store, providers []Provider, opts ...Option) *Service {
	s := &Service{
		store:     store,
		providers: providers,
		tz:        TunisTime,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mockAlerts && s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.now().UnixNano()))
	}
	return s
}

// Current returns the current conditions for loc, from the cache when fresh.
func (s *Service) Current(ctx context.Context, loc Location) (Conditions, error) {
	if s.cacheTTL > 0 && s.store != nil {
		snap, err := s.store.GetLatest(loc)
		if err == nil && s.now().Sub(snap.FetchedAt) < s.cacheTTL {
			snap.Location = loc
			return snap, nil
		}
	}
	return s.refresh(ctx, loc)
}

// FetchAndStore fetches data from all providers for the given location,
// aggregates successful readings, and stores a snapshot.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	_, err := s.refresh(ctx, loc)
	return err
}

func (s *Service) refresh(ctx context.Context, loc Location) (Conditions, error) {
	if len(s.providers) == 0 {
		log.Printf("ERROR: No providers available to fetch weather data for %s", loc.Key())
		return Conditions{}, ErrNoProviders
	}

	// Results are indexed by provider so error reporting follows provider order.
	var wg sync.WaitGroup
	readings := make([]*ProviderReading, len(s.providers))
	errs := make([]error, len(s.providers))

	for i, p := range s.providers {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), loc.Key(), err)
				errs[i] = fmt.Errorf("%s: %w", p.Name(), err)
				return
			}
			readings[i] = &r
		}()
	}

	wg.Wait()

	var ok []ProviderReading
	for _, r := range readings {
		if r != nil {
			ok = append(ok, *r)
		}
	}

	if len(ok) == 0 {
		for _, err := range errs {
			if err != nil {
				return Conditions{}, err
			}
		}
		return Conditions{}, ErrNoData
	}

	snapshot := AggregateReadings(loc, ok)
	snapshot.FetchedAt = s.now().UTC()
	if s.store != nil {
		s.store.SaveSnapshot(loc, snapshot)
	}
	return snapshot, nil
}

// Forecast returns up to days daily summaries from the first forecast
// provider that answers.
func (s *Service) Forecast(ctx context.Context, loc Location, days int) (Forecast, error) {
	if days <= 0 || days > MaxForecastDays {
		return Forecast{}, fmt.Errorf("days must be between 1 and %d", MaxForecastDays)
	}

	log.Printf("DEBUG: Forecast called for %s for %d days", loc.Key(), days)

	var firstErr error
	found := false
	for _, p := range s.providers {
		fp, ok := p.(ForecastProvider)
		if !ok {
			continue
		}
		found = true

		entries, err := fp.FetchForecast(ctx, loc)
		if err != nil {
			log.Printf("provider %s forecast failed for %s: %v", p.Name(), loc.Key(), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", p.Name(), err)
			}
			continue
		}
		if len(entries) == 0 {
			continue
		}

		return Forecast{
			Location: loc,
			Provider: p.Name(),
			Days:     BucketByDay(entries, s.tz, days),
		}, nil
	}

	if !found {
		return Forecast{}, ErrNoProviders
	}
	if firstErr != nil {
		return Forecast{}, firstErr
	}
	log.Printf("no successful forecast readings for %s", loc.Key())
	return Forecast{}, ErrNoData
}

// Alerts returns the active alerts for loc. Feed failures are not errors: the
// result is then empty, or demonstration alerts when enabled.
func (s *Service) Alerts(ctx context.Context, loc Location) []Alert {
	for _, p := range s.providers {
		ap, ok := p.(AlertProvider)
		if !ok {
			continue
		}

		alerts, err := ap.FetchAlerts(ctx, loc)
		if err != nil {
			log.Printf("INFO: provider %s alerts unavailable for %s: %v", p.Name(), loc.Key(), err)
			continue
		}
		for i := range alerts {
			alerts[i].Severity = ClassifySeverity(alerts[i].Event, alerts[i].Tags)
		}
		if alerts == nil {
			alerts = []Alert{}
		}
		return alerts
	}

	if !s.mockAlerts {
		return []Alert{}
	}

	log.Printf("INFO: alerts feed not available for %s, using mock data", loc.Key())
	name := loc.Name
	if name == "" {
		name = loc.Key()
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return MockAlerts(name, s.now(), s.rng)
}

// Marine assesses swimming and sailing safety from the current conditions.
func (s *Service) Marine(ctx context.Context, loc Location) (MarineReport, error) {
	cur, err := s.Current(ctx, loc)
	if err != nil {
		return MarineReport{}, err
	}
	return marineReport(loc, cur), nil
}

func marineReport(loc Location, cur Conditions) MarineReport {
	obs := cur.Observation()
	return MarineReport{
		Location:    loc,
		Conditions:  cur,
		Observation: obs,
		Assessment:  marine.Assess(obs),
	}
}

// Dashboard gathers current conditions, marine assessment, forecast and
// alerts concurrently. Only a current-conditions failure is returned; a
// missing forecast leaves Forecast nil.
func (s *Service) Dashboard(ctx context.Context, loc Location) (Dashboard, error) {
	var (
		cur      Conditions
		forecast *Forecast
		alerts   []Alert
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.Current(gctx, loc)
		if err != nil {
			return err
		}
		cur = c
		return nil
	})
	g.Go(func() error {
		f, err := s.Forecast(gctx, loc, MaxForecastDays)
		if err != nil {
			log.Printf("INFO: dashboard forecast unavailable for %s: %v", loc.Key(), err)
			return nil
		}
		forecast = &f
		return nil
	})
	g.Go(func() error {
		alerts = s.Alerts(gctx, loc)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	report := marineReport(loc, cur)
	return Dashboard{
		Location: loc,
		Current:  cur,
		Marine:   report.Assessment,
		Forecast: forecast,
		Alerts:   alerts,
	}, nil
}
