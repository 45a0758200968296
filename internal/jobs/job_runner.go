package jobs

import (
	"context"
	"fmt"
	"time"

	"laptoploan/pkg/config"
	"laptoploan/pkg/model"
)

const (
	JobOverdueReminders = "overdue-reminders"

	defaultJobTimeout = 5 * time.Minute
)

type OutstandingFinder interface {
	FindOutstanding(ctx context.Context, onOrBefore string) ([]*model.Reservation, error)
}

type UserDirectory interface {
	FindByStudentID(ctx context.Context, studentID string) (*model.User, error)
}

// Reminder queues an overdue reminder for one student.
type Reminder interface {
	OverdueReminder(name, email string, days int, reservations []*model.Reservation)
}

// JobRunner holds the dependencies of scheduled jobs.
type JobRunner struct {
	reservations OutstandingFinder
	users        UserDirectory
	reminder     Reminder
	cfg          *config.Config
	now          func() time.Time
	timeout      time.Duration
}

type Option func(*JobRunner)

func WithClock(now func() time.Time) Option {
	return func(jr *JobRunner) { jr.now = now }
}

func WithTimeout(d time.Duration) Option {
	return func(jr *JobRunner) { jr.timeout = d }
}

func NewJobRunner(reservations OutstandingFinder, users UserDirectory, reminder Reminder, cfg *config.Config, opts ...Option) *JobRunner {
	jr := &JobRunner{
		reservations: reservations,
		users:        users,
		reminder:     reminder,
		cfg:          cfg,
		now:          time.Now,
		timeout:      defaultJobTimeout,
	}
	for _, opt := range opts {
		opt(jr)
	}
	return jr
}

func (jr *JobRunner) Config() *config.Config {
	return jr.cfg
}

// Run executes the named job once, for manual runs from the command line.
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobOverdueReminders:
		jr.SendOverdueReminders()
		return nil
	default:
		return fmt.Errorf("unknown job %q", name)
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			jr.cfg.Log.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	start := jr.now()
	jr.cfg.Log.Info("Starting job", "job", jobName)
	jobFunc()
	jr.cfg.Log.Info("Job completed", "job", jobName, "duration", jr.now().Sub(start))
}

// Names lists the jobs Run accepts.
func Names() []string {
	return []string{JobOverdueReminders}
}
