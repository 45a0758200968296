package service

import (
	"time"

	"laptoploan/internal/events"
	"laptoploan/pkg/model"
)

// transition describes one administrator action on a reservation.
type transition struct {
	name    string
	event   events.Type
	permits func(r *model.Reservation, display model.DisplayStatus) bool
	update  func(now time.Time) *model.ReservationUpdate
}

var approve = transition{
	name:  "approve",
	event: events.ReservationApproved,
	permits: func(r *model.Reservation, _ model.DisplayStatus) bool {
		return r.Status == model.StatusWaiting
	},
	update: func(time.Time) *model.ReservationUpdate {
		return &model.ReservationUpdate{Status: model.StatusApproved}
	},
}

func reject(reason string) transition {
	return transition{
		name:  "reject",
		event: events.ReservationRejected,
		permits: func(r *model.Reservation, _ model.DisplayStatus) bool {
			return r.Status == model.StatusWaiting
		},
		update: func(time.Time) *model.ReservationUpdate {
			return &model.ReservationUpdate{
				Status:       model.StatusRejected,
				RejectReason: &reason,
			}
		},
	}
}

// markReturned accepts approved loans and any loan whose pickup time has passed.
var markReturned = transition{
	name:  "return",
	event: events.ReservationReturned,
	permits: func(r *model.Reservation, display model.DisplayStatus) bool {
		if r.Status == model.StatusApproved {
			return true
		}
		return r.Status == model.StatusWaiting &&
			(display == model.DisplayOnLoan || display == model.DisplayReturnDue)
	},
	update: func(now time.Time) *model.ReservationUpdate {
		returnedAt := now.UTC()
		return &model.ReservationUpdate{
			Status:     model.StatusReturned,
			ReturnedAt: &returnedAt,
		}
	},
}

var forceCloseOverdue = transition{
	name:  "force-close",
	event: events.ReservationOverdueClosed,
	permits: func(_ *model.Reservation, display model.DisplayStatus) bool {
		return display == model.DisplayReturnDue
	},
	update: func(now time.Time) *model.ReservationUpdate {
		returnedAt := now.UTC()
		overdue := true
		return &model.ReservationUpdate{
			Status:          model.StatusReturned,
			ReturnedAt:      &returnedAt,
			Overdue:         &overdue,
			IncOverdueCount: 1,
		}
	},
}
