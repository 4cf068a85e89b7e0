package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

// DefaultInterval is used when the configured interval is under a minute.
const DefaultInterval = 15 * time.Minute

const fetchTimeout = 30 * time.Second

// Fetcher refreshes the cached conditions of a location.
type Fetcher interface {
	FetchAndStore(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically warms the conditions cache for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	locations []weather.Location
	interval  time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, fetcher Fetcher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		fetcher:   fetcher,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = int(DefaultInterval.Minutes())
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every location concurrently and returns how many
// refreshes failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	log.Println("scheduler: running weather fetch job")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			if err := s.fetcher.FetchAndStore(ctx, loc); err != nil {
				log.Printf("scheduler: fetch failed for %s: %v", loc.Key(), err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	log.Printf("scheduler: completed weather fetch job (%d/%d ok)", len(s.locations)-failed, len(s.locations))
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
