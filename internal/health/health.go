package health

import (
	"context"
	"net/http"
	"time"

	httputil "laptoploan/pkg/http"
	kafkamiddleware "laptoploan/pkg/kafka/middleware"
	"laptoploan/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const readyTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	Status      string                           `json:"status"`
	Database    string                           `json:"database,omitempty"`
	MailPending *int                             `json:"mail_pending,omitempty"`
	Events      *kafkamiddleware.PublishSnapshot `json:"events,omitempty"`
}

type Handler struct {
	db     Pinger
	log    *logger.Logger
	mail   func() int
	events func() kafkamiddleware.PublishSnapshot
}

type Option func(*Handler)

// WithMailQueue reports the mail dispatcher backlog on /ready.
func WithMailQueue(pending func() int) Option {
	return func(h *Handler) { h.mail = pending }
}

// WithEventMetrics reports event publishing counters on /ready.
func WithEventMetrics(snapshot func() kafkamiddleware.PublishSnapshot) Option {
	return func(h *Handler) { h.events = snapshot }
}

func NewHandler(db Pinger, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{db: db, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, Response{
			Status:   "unavailable",
			Database: "error",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	resp := Response{Status: "ready", Database: "ok"}
	if h.mail != nil {
		pending := h.mail()
		resp.MailPending = &pending
	}
	if h.events != nil {
		snap := h.events()
		resp.Events = &snap
	}

	if err := httputil.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}
