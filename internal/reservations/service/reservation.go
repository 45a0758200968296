package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"laptoploan/internal/events"
	"laptoploan/internal/loanstatus"
	reservationserrors "laptoploan/internal/reservations/errors"
	"laptoploan/internal/reservations/repository"
	"laptoploan/internal/reservations/validator"
	userserrors "laptoploan/internal/users/errors"
	"laptoploan/pkg/config"
	apperrors "laptoploan/pkg/errors"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/model"
	"laptoploan/pkg/sanitizer"
	"laptoploan/pkg/session"
)

const (
	DefaultRejectReason = "reason not provided"

	// MaxStatusWindowDays bounds the date range of a status board query.
	MaxStatusWindowDays = 92
)

type ReservationService interface {
	BorrowForm(ctx context.Context, sess *session.Session) (*model.BorrowForm, error)
	Borrow(ctx context.Context, sess *session.Session, req *model.BorrowRequest) (*model.Reservation, error)
	History(ctx context.Context, studentID string) (*model.History, error)
	StatusBoard(ctx context.Context, from, to string) (*model.StatusWindow, error)

	List(ctx context.Context, limit int, offset int64) ([]*model.ReservationView, int64, error)
	Approve(ctx context.Context, id string) (*model.ReservationView, error)
	Reject(ctx context.Context, id string, reason string) (*model.ReservationView, error)
	MarkReturned(ctx context.Context, id string) (*model.ReservationView, error)
	ForceCloseOverdue(ctx context.Context, id string) (*model.ReservationView, error)
	UserDetail(ctx context.Context, studentID string) (*model.UserDetail, error)
}

// Notifier sends reservation mail. Calls must not block on delivery.
type Notifier interface {
	ReservationSubmitted(r *model.Reservation)
	ReservationApproved(r *model.Reservation)
	ReservationRejected(r *model.Reservation)
}

type UserDirectory interface {
	FindByStudentID(ctx context.Context, studentID string) (*model.User, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	users     UserDirectory
	validator *validator.ReservationValidator
	notifier  Notifier
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

type Option func(*reservationService)

// WithClock replaces the wall clock used for status and overdue calculations.
func WithClock(now func() time.Time) Option {
	return func(s *reservationService) {
		s.now = now
	}
}

func NewReservationService(
	repo repository.ReservationRepository,
	users UserDirectory,
	validator *validator.ReservationValidator,
	notifier Notifier,
	publisher events.Publisher,
	cfg *config.Config,
	opts ...Option,
) ReservationService {
	s := &reservationService{
		repo:      repo,
		users:     users,
		validator: validator,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clock returns the current time in the configured location.
func (s *reservationService) clock() time.Time {
	return s.now().In(s.cfg.TimeLocation())
}

func (s *reservationService) BorrowForm(ctx context.Context, sess *session.Session) (*model.BorrowForm, error) {
	if sess == nil || sess.StudentID == "" {
		return nil, apperrors.Unauthorized("login required").WithKey(locale.KeyLoginRequired)
	}

	history, err := s.repo.FindByStudentID(ctx, sess.StudentID)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservation history",
			"student_id", sess.StudentID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load reservation history", err)
	}

	return &model.BorrowForm{
		Name:        sess.UserName,
		StudentID:   sess.StudentID,
		Email:       sess.Email,
		OverdueDays: loanstatus.OverdueDays(history, s.clock()),
		TimeSlots:   []model.TimeSlot{model.Morning, model.Afternoon},
	}, nil
}

func (s *reservationService) Borrow(ctx context.Context, sess *session.Session, req *model.BorrowRequest) (*model.Reservation, error) {
	if sess == nil || sess.StudentID == "" {
		return nil, apperrors.Unauthorized("login required").WithKey(locale.KeyLoginRequired)
	}

	s.sanitizeBorrow(req)
	if err := s.validator.ValidateBorrow(req); err != nil {
		s.cfg.Log.Warn("Borrow request validation failed",
			"student_id", sess.StudentID,
			"date", req.Date,
			"time_slot", req.TimeSlot,
			"error", err,
		)
		return nil, borrowValidationError(err)
	}

	now := s.clock()
	date, err := loanstatus.ParseDate(req.Date, now.Location())
	if err != nil {
		return nil, apperrors.Validation("invalid date", map[string]any{"field": "date"}).
			WithKey(locale.KeyBorrowInvalidDate)
	}
	if date.Before(loanstatus.StartOfDay(now)) {
		return nil, apperrors.Validation("date is in the past", map[string]any{"field": "date"}).
			WithKey(locale.KeyBorrowPastDate)
	}

	history, err := s.repo.FindByStudentID(ctx, sess.StudentID)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservation history",
			"student_id", sess.StudentID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load reservation history", err)
	}

	if days := loanstatus.OverdueDays(history, now); days > 0 {
		s.cfg.Log.Warn("Borrow request refused, student has overdue days",
			"student_id", sess.StudentID,
			"overdue_days", days,
		)
		return nil, apperrors.Conflict(fmt.Sprintf("student has %d overdue day(s)", days)).
			WithKey(locale.KeyBorrowOverdue, days).
			WithDetail("overdue_days", days)
	}

	res := &model.Reservation{
		StudentID: sess.StudentID,
		Name:      sess.UserName,
		Email:     s.resolveEmail(ctx, sess),
		Date:      req.Date,
		TimeSlot:  model.TimeSlot(req.TimeSlot),
		Status:    model.StatusWaiting,
		CreatedAt: now.UTC(),
	}

	if err := s.validator.Validate(res); err != nil {
		s.cfg.Log.Warn("Reservation validation failed",
			"student_id", res.StudentID,
			"error", err,
		)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{
			"errors": err,
		})
	}

	if err := s.repo.Create(ctx, res); err != nil {
		s.cfg.Log.Error("Failed to create reservation",
			"student_id", res.StudentID,
			"date", res.Date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create reservation", err)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", res.ID,
		"student_id", res.StudentID,
		"date", res.Date,
		"time_slot", res.TimeSlot,
	)

	s.notifier.ReservationSubmitted(res)
	s.publisher.PublishReservation(ctx, events.ReservationCreated, res)

	return res, nil
}

// resolveEmail prefers the session email and falls back to the stored user.
func (s *reservationService) resolveEmail(ctx context.Context, sess *session.Session) string {
	if sess.Email != "" {
		return sess.Email
	}
	user, err := s.users.FindByStudentID(ctx, sess.StudentID)
	if err != nil {
		s.cfg.Log.Warn("Could not resolve email for reservation",
			"student_id", sess.StudentID,
			"error", err,
		)
		return ""
	}
	return user.Email
}

func (s *reservationService) History(ctx context.Context, studentID string) (*model.History, error) {
	studentID = sanitizer.SanitizeStudentID(studentID)
	if studentID == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}

	rs, err := s.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservation history",
			"student_id", studentID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load reservation history", err)
	}

	views, total := loanstatus.Views(rs, s.clock())
	return &model.History{
		StudentID:    studentID,
		Reservations: views,
		OverdueDays:  total,
	}, nil
}

func (s *reservationService) StatusBoard(ctx context.Context, from, to string) (*model.StatusWindow, error) {
	now := s.clock()
	from = sanitizer.SanitizeDate(from)
	to = sanitizer.SanitizeDate(to)

	if from == "" {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(model.DateLayout)
	}
	fromDate, err := loanstatus.ParseDate(from, now.Location())
	if err != nil {
		return nil, apperrors.InvalidInput("invalid from date: " + from).WithKey(locale.KeyInvalidQuery)
	}
	if to == "" {
		to = fromDate.AddDate(0, 1, -fromDate.Day()).Format(model.DateLayout)
	}
	toDate, err := loanstatus.ParseDate(to, now.Location())
	if err != nil {
		return nil, apperrors.InvalidInput("invalid to date: " + to).WithKey(locale.KeyInvalidQuery)
	}
	if toDate.Before(fromDate) {
		return nil, apperrors.InvalidInput("from must not be after to").WithKey(locale.KeyInvalidQuery)
	}
	if toDate.Sub(fromDate) > MaxStatusWindowDays*24*time.Hour {
		return nil, apperrors.InvalidInput(fmt.Sprintf("date range exceeds %d days", MaxStatusWindowDays)).
			WithKey(locale.KeyInvalidQuery)
	}

	rs, err := s.repo.FindBetween(ctx, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to load status board",
			"from", from,
			"to", to,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load status board", err)
	}

	return &model.StatusWindow{
		From:  from,
		To:    to,
		Board: buildStatusBoard(rs),
	}, nil
}

func buildStatusBoard(rs []*model.Reservation) model.StatusBoard {
	board := model.StatusBoard{}
	for _, r := range rs {
		if r == nil || r.Status == model.StatusRejected {
			continue
		}
		day, ok := board[r.Date]
		if !ok {
			day = &model.SlotNames{Morning: []string{}, Afternoon: []string{}}
			board[r.Date] = day
		}
		switch r.TimeSlot {
		case model.Morning:
			day.Morning = append(day.Morning, r.Name)
		case model.Afternoon:
			day.Afternoon = append(day.Afternoon, r.Name)
		}
	}
	return board
}

func (s *reservationService) List(ctx context.Context, limit int, offset int64) ([]*model.ReservationView, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var rs []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", err)
			errCount = apperrors.Internal("Failed to count reservations", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		rs, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list reservations",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve reservations", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views, _ := loanstatus.Views(rs, s.clock())
	return views, count, nil
}

func (s *reservationService) Approve(ctx context.Context, id string) (*model.ReservationView, error) {
	res, err := s.transition(ctx, id, approve)
	if err != nil {
		return nil, err
	}
	s.notifier.ReservationApproved(res)
	return loanstatus.View(res, s.clock()), nil
}

func (s *reservationService) Reject(ctx context.Context, id string, reason string) (*model.ReservationView, error) {
	req := &model.RejectRequest{Reason: sanitizer.SanitizeFreeText(reason)}
	if err := s.validator.ValidateReject(req); err != nil {
		return nil, apperrors.Validation("invalid reject reason", map[string]any{"errors": err}).
			WithKey(locale.KeyRejectReasonTooLong)
	}
	if req.Reason == "" {
		req.Reason = DefaultRejectReason
	}

	res, err := s.transition(ctx, id, reject(req.Reason))
	if err != nil {
		return nil, err
	}
	s.notifier.ReservationRejected(res)
	return loanstatus.View(res, s.clock()), nil
}

func (s *reservationService) MarkReturned(ctx context.Context, id string) (*model.ReservationView, error) {
	res, err := s.transition(ctx, id, markReturned)
	if err != nil {
		return nil, err
	}
	return loanstatus.View(res, s.clock()), nil
}

func (s *reservationService) ForceCloseOverdue(ctx context.Context, id string) (*model.ReservationView, error) {
	res, err := s.transition(ctx, id, forceCloseOverdue)
	if err != nil {
		return nil, err
	}
	return loanstatus.View(res, s.clock()), nil
}

func (s *reservationService) UserDetail(ctx context.Context, studentID string) (*model.UserDetail, error) {
	studentID = sanitizer.SanitizeStudentID(studentID)
	if studentID == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}

	user, err := s.users.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", studentID).WithKey(locale.KeyUserNotFound)
		}
		s.cfg.Log.Error("Failed to get user by student ID",
			"student_id", studentID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	history, err := s.History(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &model.UserDetail{
		User:    user,
		History: *history,
	}, nil
}

func (s *reservationService) transition(ctx context.Context, id string, t transition) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty").WithKey(locale.KeyReservationInvalidID)
	}

	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve reservation")
	}

	now := s.clock()
	display := loanstatus.DisplayStatus(res, now)
	if !t.permits(res, display) {
		s.cfg.Log.Warn("Reservation transition refused",
			"id", id,
			"transition", t.name,
			"status", res.Status,
			"display_status", display,
		)
		return nil, invalidTransition(t.name, res.Status, display)
	}

	update := t.update(now)
	applied, err := s.repo.UpdateByID(ctx, id, []model.ReservationStatus{res.Status}, update)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to update reservation")
	}
	if !applied {
		// another request changed the status between read and update
		s.cfg.Log.Warn("Reservation changed concurrently",
			"id", id,
			"transition", t.name,
		)
		return nil, invalidTransition(t.name, res.Status, display)
	}

	applyUpdate(res, update)

	s.cfg.Log.Info("Reservation transition applied",
		"id", id,
		"transition", t.name,
		"status", res.Status,
		"overdue_count", res.OverdueCount,
	)

	s.publisher.PublishReservation(ctx, t.event, res)
	return res, nil
}

func (s *reservationService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, reservationserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Reservation", id).WithKey(locale.KeyReservationNotFound)
	}
	if errors.Is(err, reservationserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid reservation ID format").WithKey(locale.KeyReservationInvalidID)
	}
	s.cfg.Log.Error(message,
		"id", id,
		"error", err,
	)
	return apperrors.Internal(message, err)
}

func invalidTransition(name string, status model.ReservationStatus, display model.DisplayStatus) error {
	return apperrors.Conflict(fmt.Sprintf("cannot %s a reservation in status %s", name, display)).
		WithKey(locale.KeyInvalidTransition).
		WithDetail("transition", name).
		WithDetail("status", status).
		WithDetail("display_status", display)
}

func applyUpdate(r *model.Reservation, u *model.ReservationUpdate) {
	if u.Status != "" {
		r.Status = u.Status
	}
	if u.ReturnedAt != nil {
		r.ReturnedAt = u.ReturnedAt
	}
	if u.Overdue != nil {
		r.Overdue = *u.Overdue
	}
	if u.RejectReason != nil {
		r.RejectReason = *u.RejectReason
	}
	r.OverdueCount += u.IncOverdueCount
}

func (s *reservationService) sanitizeBorrow(req *model.BorrowRequest) {
	req.Date = sanitizer.SanitizeDate(req.Date)
	req.TimeSlot = sanitizer.SanitizeTimeSlot(req.TimeSlot)
}

func borrowValidationError(err error) error {
	key := locale.KeyBorrowInvalidDate
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		switch {
		case verrs.HasTag("required"):
			key = locale.KeyBorrowMissingFields
		case verrs.HasField("date"):
			key = locale.KeyBorrowInvalidDate
		case verrs.HasField("time_slot"):
			key = locale.KeyBorrowInvalidSlot
		}
	}
	return apperrors.Validation("Borrow request validation failed", map[string]any{
		"errors": err,
	}).WithKey(key)
}
