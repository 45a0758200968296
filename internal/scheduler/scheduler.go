package scheduler

import (
	"fmt"

	"laptoploan/internal/jobs"
	"laptoploan/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the background jobs on their cron schedules.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
	log  *logger.Logger
}

// NewScheduler builds a scheduler with seconds precision in the configured
// location and registers every job. An invalid schedule is an error.
func NewScheduler(jobRunner *jobs.JobRunner, log *logger.Logger) (*Scheduler, error) {
	cfg := jobRunner.Config()

	c := cron.New(
		cron.WithLocation(cfg.TimeLocation()),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
		log:  log,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	spec := s.jobs.Config().OverdueReminderSchedule
	if _, err := s.cron.AddFunc(spec, s.jobs.SendOverdueReminders); err != nil {
		return fmt.Errorf("register %s job with schedule %q: %w", jobs.JobOverdueReminders, spec, err)
	}

	s.log.Info("Cron jobs registered", "jobs", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Cron scheduler started")
}

// Stop stops scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Cron scheduler stopped")
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
