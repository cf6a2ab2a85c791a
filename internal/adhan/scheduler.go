package adhan

import (
	"context"
	"sync"
	"time"

	"github.com/chrissnell/muadhin/internal/timetable"
	"github.com/chrissnell/muadhin/pkg/config"
	"go.uber.org/zap"
)

// Clock is the time source the scheduler waits on
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// idleRetry is how long a location with nothing due (polar day or night)
// waits before looking again
const idleRetry = 6 * time.Hour

// Scheduler announces each configured location's prayers as they come due
type Scheduler struct {
	locations []config.LocationData
	table     *timetable.Timetable
	announcer *Announcer
	clock     Clock
	logger    *zap.SugaredLogger

	mu   sync.Mutex
	last map[string]Announcement
}

// SchedulerOption customizes a Scheduler
type SchedulerOption func(*Scheduler)

// WithClock replaces the wall clock, mostly for tests
func WithClock(c Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = c }
}

func NewScheduler(locations []config.LocationData, table *timetable.Timetable, announcer *Announcer, logger *zap.SugaredLogger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		locations: locations,
		table:     table,
		announcer: announcer,
		clock:     realClock{},
		logger:    logger,
		last:      make(map[string]Announcement),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches one goroutine per location, each tracked by wg and stopped
// by cancelling ctx
func (s *Scheduler) Start(ctx context.Context, wg *sync.WaitGroup) {
	s.logger.Infof("starting adhan scheduler for %d locations", len(s.locations))
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc config.LocationData) {
			defer wg.Done()
			s.run(ctx, loc)
		}(loc)
	}
}

// Run blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	s.Start(ctx, &wg)
	wg.Wait()
}

// Next returns the next prayer due at loc after now
func (s *Scheduler) Next(loc config.LocationData, now time.Time) (Upcoming, bool, error) {
	return NextFor(s.table, loc, now)
}

// Last returns the most recent announcement made for location
func (s *Scheduler) Last(location string) (Announcement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.last[location]
	return a, ok
}

// NextFor looks at the location's local today and tomorrow for the next
// announced prayer after now
func NextFor(table *timetable.Timetable, loc config.LocationData, now time.Time) (Upcoming, bool, error) {
	today, err := table.Day(loc, now)
	if err != nil {
		return Upcoming{}, false, err
	}
	tomorrow, err := table.Day(loc, now.Add(24*time.Hour))
	if err != nil {
		return Upcoming{}, false, err
	}
	next, ok := NextPrayer(now, today, tomorrow)
	return next, ok, nil
}

func (s *Scheduler) run(ctx context.Context, loc config.LocationData) {
	for {
		now := s.clock.Now()
		next, ok, err := s.Next(loc, now)
		if err != nil {
			s.logger.Errorw("error computing prayer times", "location", loc.Name, "error", err)
			return
		}

		wait := idleRetry
		if ok {
			wait = next.At.Sub(now)
			s.logger.Infow("next adhan", "location", loc.Name, "prayer", next.Prayer.String(), "at", next.At, "in", wait.Round(time.Second))
		} else {
			s.logger.Infow("no prayer due in the next two days", "location", loc.Name, "retry_in", idleRetry)
		}

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(wait):
		}

		if !ok {
			continue
		}

		ann, err := s.announcer.Announce(ctx, loc.Name, next.Prayer, next.At)
		if err != nil {
			s.logger.Errorw("adhan failed", "location", loc.Name, "prayer", next.Prayer.String(), "error", err)
		}
		s.mu.Lock()
		s.last[loc.Name] = ann
		s.mu.Unlock()
	}
}
