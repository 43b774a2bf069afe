// Package scheduler runs named jobs on fixed intervals. A job that has not
// finished when its next tick arrives is skipped, not queued, bounding
// resource usage under load.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Job is one unit of scheduled work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
	// RunAtStart fires the job once immediately on Start, before the first tick.
	RunAtStart bool
}

// Scheduler owns a set of interval jobs.
type Scheduler struct {
	jobs []Job
	log  zerolog.Logger
	wg   sync.WaitGroup
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// Add registers a job. Must be called before Start.
func (s *Scheduler) Add(job Job) {
	s.jobs = append(s.jobs, job)
}

// Start launches one goroutine per job. Jobs stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}
}

// Wait blocks until all job goroutines have exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	var inFlight atomic.Bool
	var runs sync.WaitGroup
	defer runs.Wait()

	fire := func() {
		// Overlapping runs are skipped, never queued.
		if !inFlight.CompareAndSwap(false, true) {
			s.log.Warn().Str("job", job.Name).Msg("previous run still in flight, skipping tick")
			return
		}
		runs.Add(1)
		go func() {
			defer runs.Done()
			defer inFlight.Store(false)

			if err := job.Run(ctx); err != nil {
				s.log.Error().Err(err).Str("job", job.Name).Msg("scheduled run failed")
			}
		}()
	}

	if job.RunAtStart {
		fire()
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fire()
		}
	}
}
