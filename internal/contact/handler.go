package contact

import (
	"net/http"

	"laptoploan/pkg/contracts"
	httputil "laptoploan/pkg/http"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service *Service
	limiter contracts.Limiter
	log     *logger.Logger
}

func NewHandler(service *Service, limiter contracts.Limiter, log *logger.Logger) *Handler {
	return &Handler{service: service, limiter: limiter, log: log}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/contact", h.limiter.Limit(h.Send))
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ContactRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.service.Send(r.Context(), &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WriteMessage(w, r, http.StatusAccepted, locale.KeyContactSent, nil); err != nil {
		h.log.Error("failed to write accepted response", "handler", "Send", "operation", "WriteMessage", "error", err)
	}
}
