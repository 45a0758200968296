package middleware

import (
	"net/http"
	"strings"

	apperrors "laptoploan/pkg/errors"
	httputil "laptoploan/pkg/http"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/session"

	"github.com/julienschmidt/httprouter"
)

const (
	UserLoginPath  = "/login"
	AdminLoginPath = "/admin/login"
)

// Auth loads the session cookie and guards routes that need one.
type Auth struct {
	sessions *session.Manager
	log      *logger.Logger
}

func NewAuth(sessions *session.Manager, log *logger.Logger) *Auth {
	return &Auth{sessions: sessions, log: log}
}

// Authenticate puts a valid session, if any, into the request context.
// Invalid or expired cookies are cleared and the request continues anonymously.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := a.sessions.Read(r)
		switch {
		case err == nil:
			r = r.WithContext(session.WithSession(r.Context(), s))
		case err != session.ErrNoSession:
			a.log.Debug("Discarding session cookie", "request_id", RequestID(r), "error", err)
			a.sessions.Clear(w)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession admits any logged-in caller, student or administrator.
func (a *Auth) RequireSession(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if _, ok := session.FromContext(r.Context()); !ok {
			a.deny(w, r, UserLoginPath)
			return
		}
		next(w, r, ps)
	}
}

// RequireUser admits student sessions only.
func (a *Auth) RequireUser(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, ok := session.FromContext(r.Context())
		if !ok {
			a.deny(w, r, UserLoginPath)
			return
		}
		if s.IsAdmin || s.StudentID == "" {
			httputil.WriteError(w, r, apperrors.Forbidden("student session required").WithKey(locale.KeyLoginRequired))
			return
		}
		next(w, r, ps)
	}
}

func (a *Auth) RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, ok := session.FromContext(r.Context())
		if !ok {
			a.deny(w, r, AdminLoginPath)
			return
		}
		if !s.IsAdmin {
			a.log.Warn("Non-admin session on admin route",
				"request_id", RequestID(r),
				"user_id", s.UserID,
				"path", r.URL.Path,
			)
			httputil.WriteError(w, r, apperrors.Forbidden("admin access required").WithKey(locale.KeyAdminRequired))
			return
		}
		next(w, r, ps)
	}
}

// deny redirects browsers to the login page and answers API clients with 401.
func (a *Auth) deny(w http.ResponseWriter, r *http.Request, loginPath string) {
	if wantsHTML(r) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	httputil.WriteError(w, r, apperrors.Unauthorized("login required").WithKey(locale.KeyLoginRequired))
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
