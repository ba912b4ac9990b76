// File: /jobs/streak_job.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StreakRecomputer is satisfied by services.StatsService.
type StreakRecomputer interface {
	RecomputeStreaks(ctx context.Context, today time.Time) (int, error)
}

// StreakJob periodically refreshes every active user's streak counters
type StreakJob struct {
	stats    StreakRecomputer
	schedule string
	cron     *cron.Cron
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewStreakJob parses schedule (six fields, seconds first) up front so a bad
// expression fails at startup.
func NewStreakJob(stats StreakRecomputer, schedule string, log logrus.FieldLogger) (*StreakJob, error) {
	j := &StreakJob{
		stats:    stats,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		log:      log.WithField("job", "streaks"),
		now:      time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid streak schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins the streak job
func (j *StreakJob) Start() {
	j.log.WithField("schedule", j.schedule).Info("Streak job started")
	j.cron.Start()
}

// Stop waits for a running recomputation to finish.
func (j *StreakJob) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info("Streak job stopped")
}

// Run performs one recomputation and returns the number of users updated.
func (j *StreakJob) Run(ctx context.Context) int {
	start := time.Now()
	j.log.Debug("Running streak recomputation...")

	updated, err := j.stats.RecomputeStreaks(ctx, j.now())
	if err != nil {
		j.log.WithError(err).Error("Error during streak recomputation")
		return updated
	}

	j.log.WithFields(logrus.Fields{
		"updated":  updated,
		"duration": time.Since(start).String(),
	}).Info("Streak recomputation completed")
	return updated
}
