package notifications

import (
	"fmt"

	"laptoploan/pkg/logger"
	"laptoploan/pkg/model"
)

type Sender interface {
	Dispatch(m Mail) bool
}

// Notifier turns domain events into mail and hands it to a Sender.
// None of its methods block on delivery.
type Notifier struct {
	sender         Sender
	contactAddress string
	log            *logger.Logger
}

func NewNotifier(sender Sender, contactAddress string, log *logger.Logger) *Notifier {
	return &Notifier{
		sender:         sender,
		contactAddress: contactAddress,
		log:            log,
	}
}

func (n *Notifier) ReservationSubmitted(r *model.Reservation) {
	n.reservation("submitted", fmt.Sprintf("%s 노트북 신청 확인", r.Date), r)
}

func (n *Notifier) ReservationApproved(r *model.Reservation) {
	n.reservation("approved", fmt.Sprintf("%s 노트북 대여 승인", r.Date), r)
}

func (n *Notifier) ReservationRejected(r *model.Reservation) {
	n.reservation("rejected", fmt.Sprintf("%s 노트북 대여 거절", r.Date), r)
}

// OverdueReminder tells a student about their outstanding overdue days.
func (n *Notifier) OverdueReminder(name, email string, days int, reservations []*model.Reservation) {
	dates := make([]string, 0, len(reservations))
	for _, r := range reservations {
		dates = append(dates, fmt.Sprintf("%s %s", r.Date, slotLabel(r.TimeSlot)))
	}

	body, err := render("overdue", overdueMail{
		Name:      name,
		Days:      days,
		Dates:     dates,
		Signature: signature,
	})
	if err != nil {
		n.log.Error("Failed to render mail", "template", "overdue", "error", err)
		return
	}

	n.sender.Dispatch(Mail{
		To:      email,
		ToName:  name,
		Subject: "노트북 반납 기한 초과 안내",
		Body:    body,
	})
}

// ContactMessage forwards a contact form to the configured address. It
// reports false when no address is configured or the mail was not queued.
func (n *Notifier) ContactMessage(req *model.ContactRequest) bool {
	if n.contactAddress == "" {
		n.log.Warn("Contact message dropped, no contact address configured", "from", req.Email)
		return false
	}

	body, err := render("contact", req)
	if err != nil {
		n.log.Error("Failed to render mail", "template", "contact", "error", err)
		return false
	}

	return n.sender.Dispatch(Mail{
		To:      n.contactAddress,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("[문의] %s", req.Name),
		Body:    body,
	})
}

func (n *Notifier) reservation(tmpl, subject string, r *model.Reservation) {
	if r == nil || r.Email == "" {
		n.log.Warn("Reservation mail skipped, no recipient", "template", tmpl)
		return
	}

	body, err := render(tmpl, newReservationMail(r))
	if err != nil {
		n.log.Error("Failed to render mail", "template", tmpl, "reservation_id", r.ID, "error", err)
		return
	}

	n.sender.Dispatch(Mail{
		To:      r.Email,
		ToName:  r.Name,
		Subject: subject,
		Body:    body,
	})
}
