package jobs

import (
	"context"
	"fmt"

	"laptoploan/internal/loanstatus"
	"laptoploan/pkg/model"
)

// SendOverdueReminders mails every student with overdue days a summary of
// the reservations still outstanding.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
		defer cancel()

		sent, err := jr.sendOverdueReminders(ctx)
		if err != nil {
			jr.cfg.Log.Error("Failed to send overdue reminders", "error", err)
			return
		}
		jr.cfg.Log.Info("Overdue reminders queued", "count", sent)
	})
}

func (jr *JobRunner) sendOverdueReminders(ctx context.Context) (int, error) {
	now := jr.now().In(jr.cfg.TimeLocation())

	outstanding, err := jr.reservations.FindOutstanding(ctx, now.Format(model.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("load outstanding reservations: %w", err)
	}

	order, byStudent := groupByStudent(outstanding)

	sent := 0
	for _, studentID := range order {
		rs := byStudent[studentID]

		days := loanstatus.OverdueDays(rs, now)
		if days <= 0 {
			continue
		}

		overdue := make([]*model.Reservation, 0, len(rs))
		for _, r := range rs {
			if loanstatus.ReservationOverdueDays(r, now) > 0 {
				overdue = append(overdue, r)
			}
		}

		name, email := jr.recipient(ctx, studentID, rs)
		if email == "" {
			jr.cfg.Log.Warn("Skipping overdue reminder, no email on record",
				"student_id", studentID,
				"overdue_days", days,
			)
			continue
		}

		jr.reminder.OverdueReminder(name, email, days, overdue)
		sent++
	}

	return sent, nil
}

// recipient takes the name and email stored on the reservations and falls
// back to the user record when none carries an email.
func (jr *JobRunner) recipient(ctx context.Context, studentID string, rs []*model.Reservation) (string, string) {
	var name string
	for _, r := range rs {
		if name == "" {
			name = r.Name
		}
		if r.Email != "" {
			return r.Name, r.Email
		}
	}

	user, err := jr.users.FindByStudentID(ctx, studentID)
	if err != nil {
		jr.cfg.Log.Warn("Could not resolve email for overdue reminder",
			"student_id", studentID,
			"error", err,
		)
		return name, ""
	}
	return user.Name, user.Email
}

func groupByStudent(rs []*model.Reservation) ([]string, map[string][]*model.Reservation) {
	var order []string
	groups := make(map[string][]*model.Reservation)
	for _, r := range rs {
		if _, seen := groups[r.StudentID]; !seen {
			order = append(order, r.StudentID)
		}
		groups[r.StudentID] = append(groups[r.StudentID], r)
	}
	return order, groups
}
