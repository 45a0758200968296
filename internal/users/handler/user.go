package handler

import (
	"net/http"
	"strings"

	"laptoploan/internal/users/service"
	"laptoploan/pkg/contracts"
	apperrors "laptoploan/pkg/errors"
	httputil "laptoploan/pkg/http"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/middleware"
	"laptoploan/pkg/model"
	"laptoploan/pkg/session"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service  service.UserService
	sessions *session.Manager
	guard    contracts.Guard
	limiter  contracts.Limiter
	log      *logger.Logger
}

func NewUserHandler(service service.UserService, sessions *session.Manager, guard contracts.Guard, limiter contracts.Limiter, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		sessions: sessions,
		guard:    guard,
		limiter:  limiter,
		log:      log,
	}
}

// MeResponse describes the caller. User is set for student sessions only.
type MeResponse struct {
	Session *session.Session `json:"session"`
	User    *model.User      `json:"user,omitempty"`
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/register", h.limiter.Limit(h.Register))
	router.POST("/api/v1/login", h.limiter.Limit(h.Login))
	router.POST("/api/v1/logout", h.Logout)
	router.GET("/api/v1/me", h.guard.RequireSession(h.Me))
	router.POST("/api/v1/admin/login", h.limiter.Limit(h.AdminLogin))

	router.GET(middleware.UserLoginPath, h.LoginPage)
	router.GET(middleware.AdminLoginPath, h.AdminLoginPage)
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := httputil.WriteMessage(w, r, http.StatusCreated, locale.KeyRegistered, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteMessage", "error", err)
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	sess, err := h.service.Login(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	h.issue(w, r, "Login", sess)
}

func (h *UserHandler) AdminLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AdminLoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	sess, err := h.service.LoginAdmin(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	h.issue(w, r, "AdminLogin", sess)
}

func (h *UserHandler) issue(w http.ResponseWriter, r *http.Request, name string, sess *session.Session) {
	if err := h.sessions.Issue(w, *sess); err != nil {
		h.log.Error("failed to issue session", "handler", name, "request_id", middleware.RequestID(r), "error", err)
		httputil.WriteError(w, r, apperrors.Internal("failed to issue session", err))
		return
	}

	h.log.Info("Session issued",
		"request_id", middleware.RequestID(r),
		"user_id", sess.UserID,
		"admin", sess.IsAdmin,
	)

	if err := httputil.WriteSuccess(w, sess); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

// Logout always succeeds. Browsers are sent back to the login page.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.sessions.Clear(w)

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, middleware.UserLoginPath, http.StatusSeeOther)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, _ := session.FromContext(r.Context())
	resp := MeResponse{Session: sess}

	if !sess.IsAdmin && sess.StudentID != "" {
		user, err := h.service.GetByStudentID(r.Context(), sess.StudentID)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		resp.User = user
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}
