// Package loanstatus derives the display status and the overdue-day count of
// laptop loans from stored reservations and a caller-supplied instant.
//
// Every function here is pure: the current time is always an argument and all
// calendar computations happen in the location of that argument.
package loanstatus

import (
	"time"

	"laptoploan/pkg/model"
)

const (
	// MorningPickupHour is the hour from which a morning loan is handed out.
	MorningPickupHour = 9
	// AfternoonPickupHour is the hour from which an afternoon loan is handed out.
	AfternoonPickupHour = 13
)

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date at day-start in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(model.DateLayout, s, loc)
}

// DueDate returns the day-start after which a loan starting on date is outstanding.
// Morning loans are due the same day, afternoon loans the next calendar day.
func DueDate(date time.Time, slot model.TimeSlot) time.Time {
	day := StartOfDay(date)
	if slot == model.Afternoon {
		return day.AddDate(0, 0, 1)
	}
	return day
}

func pickupHour(slot model.TimeSlot) int {
	if slot == model.Afternoon {
		return AfternoonPickupHour
	}
	return MorningPickupHour
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysBetween counts calendar days from a to b, ignoring wall-clock length of
// each day so DST transitions never produce fractional results.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// DisplayStatus computes what a reservation looks like at now.
func DisplayStatus(r *model.Reservation, now time.Time) model.DisplayStatus {
	switch r.Status {
	case model.StatusReturned:
		return model.DisplayReturned
	case model.StatusRejected:
		return model.DisplayRejected
	}

	date, err := ParseDate(r.Date, now.Location())
	if err != nil {
		return model.DisplayWaiting
	}
	if date.After(now) {
		return model.DisplayWaiting
	}

	if sameDay(date, now) {
		if now.Hour() < pickupHour(r.TimeSlot) {
			return model.DisplayWaiting
		}
		return model.DisplayOnLoan
	}

	if now.After(DueDate(date, r.TimeSlot)) {
		return model.DisplayReturnDue
	}
	return model.DisplayOnLoan
}

// ReservationOverdueDays is the number of whole calendar days r has been
// outstanding past its due date at now. Closed reservations contribute nothing.
func ReservationOverdueDays(r *model.Reservation, now time.Time) int {
	if r.Status == model.StatusReturned || r.Status == model.StatusRejected {
		return 0
	}
	date, err := ParseDate(r.Date, now.Location())
	if err != nil {
		return 0
	}
	diff := daysBetween(DueDate(date, r.TimeSlot), StartOfDay(now))
	if diff <= 0 {
		return 0
	}
	return diff
}

// OverdueDays sums ReservationOverdueDays over rs.
func OverdueDays(rs []*model.Reservation, now time.Time) int {
	total := 0
	for _, r := range rs {
		if r == nil {
			continue
		}
		total += ReservationOverdueDays(r, now)
	}
	return total
}

// View wraps r with its computed display values.
func View(r *model.Reservation, now time.Time) *model.ReservationView {
	return &model.ReservationView{
		Reservation:   r,
		DisplayStatus: DisplayStatus(r, now),
		OverdueDays:   ReservationOverdueDays(r, now),
	}
}

// Views maps View over rs and returns the summed overdue days.
func Views(rs []*model.Reservation, now time.Time) ([]*model.ReservationView, int) {
	views := make([]*model.ReservationView, 0, len(rs))
	total := 0
	for _, r := range rs {
		if r == nil {
			continue
		}
		v := View(r, now)
		total += v.OverdueDays
		views = append(views, v)
	}
	return views, total
}
