package handler

import (
	"net/http"

	"laptoploan/internal/reservations/service"
	"laptoploan/pkg/contracts"
	apperrors "laptoploan/pkg/errors"
	httputil "laptoploan/pkg/http"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/model"
	"laptoploan/pkg/session"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	guard   contracts.Guard
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, guard contracts.Guard, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/borrow", h.guard.RequireUser(h.BorrowForm))
	router.POST("/api/v1/borrow", h.guard.RequireUser(h.Borrow))
	router.GET("/api/v1/reservations/mine", h.guard.RequireUser(h.Mine))
	router.GET("/api/v1/status", h.guard.RequireSession(h.Status))

	router.GET("/api/v1/admin/reservations", h.guard.RequireAdmin(h.List))
	router.POST("/api/v1/admin/reservations/:id/approve", h.guard.RequireAdmin(h.Approve))
	router.POST("/api/v1/admin/reservations/:id/reject", h.guard.RequireAdmin(h.Reject))
	router.POST("/api/v1/admin/reservations/:id/return", h.guard.RequireAdmin(h.MarkReturned))
	router.POST("/api/v1/admin/reservations/:id/force-close", h.guard.RequireAdmin(h.ForceCloseOverdue))
	router.GET("/api/v1/admin/users/:studentId", h.guard.RequireAdmin(h.UserDetail))
}

func (h *ReservationHandler) BorrowForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, _ := session.FromContext(r.Context())

	form, err := h.service.BorrowForm(r.Context(), sess)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, form); err != nil {
		h.log.Error("failed to write success response", "handler", "BorrowForm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Borrow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BorrowRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	sess, _ := session.FromContext(r.Context())
	res, err := h.service.Borrow(r.Context(), sess, &req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WriteMessage(w, r, http.StatusCreated, locale.KeyBorrowSubmitted, res); err != nil {
		h.log.Error("failed to write created response", "handler", "Borrow", "operation", "WriteMessage", "error", err)
	}
}

func (h *ReservationHandler) Mine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("login required").WithKey(locale.KeyLoginRequired))
		return
	}

	history, err := h.service.History(r.Context(), sess.StudentID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, history); err != nil {
		h.log.Error("failed to write success response", "handler", "Mine", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	board, err := h.service.StatusBoard(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, board); err != nil {
		h.log.Error("failed to write success response", "handler", "Status", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	views, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WritePaginated(w, views, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.Approve(r.Context(), ps.ByName("id"))
	h.writeTransition(w, r, "Approve", view, err)
}

func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.RejectRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	view, err := h.service.Reject(r.Context(), ps.ByName("id"), req.Reason)
	h.writeTransition(w, r, "Reject", view, err)
}

func (h *ReservationHandler) MarkReturned(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.MarkReturned(r.Context(), ps.ByName("id"))
	h.writeTransition(w, r, "MarkReturned", view, err)
}

func (h *ReservationHandler) ForceCloseOverdue(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.ForceCloseOverdue(r.Context(), ps.ByName("id"))
	h.writeTransition(w, r, "ForceCloseOverdue", view, err)
}

func (h *ReservationHandler) UserDetail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.UserDetail(r.Context(), ps.ByName("studentId"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, detail); err != nil {
		h.log.Error("failed to write success response", "handler", "UserDetail", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeTransition(w http.ResponseWriter, r *http.Request, name string, view *model.ReservationView, err error) {
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}
