package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/meetingbot/internal/jobs"
)

// Scheduler drives the periodic jobs. A single mutex serializes all job
// runs: the engine holds no internal locking and assumes exclusive storage
// access for the duration of one run.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location

	mu sync.Mutex
}

type Config struct {
	MorningHour   int
	DailyHour     int
	CheckInterval time.Duration
}

type Jobs struct {
	Morning    *jobs.Morning
	Reconciler *jobs.Reconciler
	Stats      *jobs.Stats
	Retention  *jobs.Retention
}

func New(ctx context.Context, loc *time.Location, cfg Config, j Jobs) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		loc:  loc,
	}

	entries := []struct {
		spec    string
		name    string
		lastDay bool
		run     func(context.Context, time.Time) error
	}{
		{fmt.Sprintf("0 %d * * *", cfg.MorningHour), "morning", false, j.Morning.Run},
		{fmt.Sprintf("@every %s", cfg.CheckInterval), "reconcile", false, j.Reconciler.Run},
		{fmt.Sprintf("0 %d * * *", cfg.DailyHour), "stats", true, j.Stats.Run},
		{fmt.Sprintf("10 %d * * *", cfg.DailyHour), "retention", true, func(ctx context.Context, now time.Time) error {
			_, err := j.Retention.Sweep(ctx, now)
			return err
		}},
	}

	for _, e := range entries {
		e := e
		_, err := s.cron.AddFunc(e.spec, func() {
			now := time.Now().In(s.loc)
			// The monthly jobs fire daily; cron has no last-day-of-month
			// notation, so the gate lives here.
			if e.lastDay && !lastDayOfMonth(now) {
				return
			}
			s.runOne(ctx, e.name, now, e.run)
		})
		if err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", e.name, e.spec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOne(ctx context.Context, name string, now time.Time, run func(context.Context, time.Time) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("scheduler: %s job starting", name)
	if err := run(ctx, now); err != nil {
		// The next scheduled run retries naturally against fresh state.
		log.Printf("scheduler: %s job failed: %v", name, err)
		return
	}
	log.Printf("scheduler: %s job done", name)
}

func lastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Day() == 1
}
