package model

import (
	"time"
)

type TimeSlot string

const (
	Morning   TimeSlot = "morning"
	Afternoon TimeSlot = "afternoon"
)

type ReservationStatus string

const (
	StatusWaiting  ReservationStatus = "waiting"
	StatusApproved ReservationStatus = "approved"
	StatusRejected ReservationStatus = "rejected"
	StatusReturned ReservationStatus = "returned"
)

// DisplayStatus is derived from a reservation and the current time; it is never stored.
type DisplayStatus string

const (
	DisplayWaiting   DisplayStatus = "waiting"
	DisplayOnLoan    DisplayStatus = "on-loan"
	DisplayReturnDue DisplayStatus = "return-due"
	DisplayReturned  DisplayStatus = "returned"
	DisplayRejected  DisplayStatus = "rejected"
)

// DateLayout is the calendar date format used for Reservation.Date.
const DateLayout = "2006-01-02"

type Reservation struct {
	ID           string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StudentID    string            `json:"student_id" bson:"student_id" validate:"required,min=1,max=32"`
	Name         string            `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Email        string            `json:"email" bson:"email" validate:"omitempty,email"`
	Date         string            `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot     TimeSlot          `json:"time_slot" bson:"time_slot" validate:"required,oneof=morning afternoon"`
	Status       ReservationStatus `json:"status" bson:"status" validate:"required,oneof=waiting approved rejected returned"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at"`
	ReturnedAt   *time.Time        `json:"returned_at,omitempty" bson:"returned_at,omitempty"`
	OverdueCount int               `json:"overdue_count" bson:"overdue_count" validate:"min=0"`
	Overdue      bool              `json:"overdue" bson:"overdue"`
	RejectReason string            `json:"reject_reason,omitempty" bson:"reject_reason,omitempty" validate:"omitempty,max=500"`
}

// ReservationUpdate lists the fields an administrator transition may change.
// IncOverdueCount is applied with $inc so concurrent closes never lose an increment.
type ReservationUpdate struct {
	Status          ReservationStatus
	ReturnedAt      *time.Time
	Overdue         *bool
	RejectReason    *string
	IncOverdueCount int
}

// ReservationView is a reservation together with the values computed for display.
type ReservationView struct {
	*Reservation
	DisplayStatus DisplayStatus `json:"display_status"`
	OverdueDays   int           `json:"overdue_days"`
}

type BorrowRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot string `json:"time_slot" validate:"required,oneof=morning afternoon"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// SlotNames groups borrower names by slot for one calendar date.
type SlotNames struct {
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
}

// StatusBoard maps a YYYY-MM-DD date to the names booked on it.
type StatusBoard map[string]*SlotNames

type History struct {
	StudentID    string             `json:"student_id"`
	Reservations []*ReservationView `json:"reservations"`
	OverdueDays  int                `json:"overdue_days"`
}

type UserDetail struct {
	User *User `json:"user"`
	History
}

type BorrowForm struct {
	Name        string     `json:"name"`
	StudentID   string     `json:"student_id"`
	Email       string     `json:"email"`
	OverdueDays int        `json:"overdue_days"`
	TimeSlots   []TimeSlot `json:"time_slots"`
}

// StatusWindow is the status board for the dates From..To inclusive.
type StatusWindow struct {
	From  string      `json:"from"`
	To    string      `json:"to"`
	Board StatusBoard `json:"board"`
}
