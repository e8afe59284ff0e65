// Package jobs runs periodic housekeeping for the server.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrijs2005/gophfit/internal/logging"
)

// limiterIdle is how long a rate limit bucket may stay unused before it
// is forgotten.
const limiterIdle = 10 * time.Minute

type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type PurgeRecorder interface {
	TokensPurged(n int64)
}

type Sweeper interface {
	Sweep(idle time.Duration) int
}

type Scheduler struct {
	cron     *cron.Cron
	spec     string
	purger   TokenPurger
	recorder PurgeRecorder
	sweeper  Sweeper
	logger   logging.Logger
}

// NewScheduler prepares the housekeeping run. recorder and sweeper may be nil.
func NewScheduler(spec string, p TokenPurger, r PurgeRecorder, s Sweeper, l logging.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:     spec,
		purger:   p,
		recorder: r,
		sweeper:  s,
		logger:   l.With("module", "jobs"),
	}
}

// RunOnce purges expired refresh tokens and idle rate limit buckets.
func (s *Scheduler) RunOnce(ctx context.Context) {
	n, err := s.purger.PurgeExpiredTokens(ctx)
	if err != nil {
		s.logger.Error(ctx, "Token purge failed", "error", err)
	} else {
		if s.recorder != nil {
			s.recorder.TokensPurged(n)
		}
		if n > 0 {
			s.logger.Info(ctx, "Purged expired refresh tokens", "count", n)
		}
	}

	if s.sweeper != nil {
		if swept := s.sweeper.Sweep(limiterIdle); swept > 0 {
			s.logger.Debug(ctx, "Swept idle rate limiters", "count", swept)
		}
	}
}

// Run schedules RunOnce and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting housekeeping", "schedule", s.spec)
	s.cron.Start()

	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}
