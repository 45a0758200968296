package middleware

import (
	"net/http"

	"laptoploan/pkg/locale"

	"golang.org/x/text/language"
)

// Language stores the Accept-Language negotiated tag in the request context.
func Language(def language.Tag) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := locale.Negotiate(r.Header.Get("Accept-Language"), def)
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(locale.WithLanguage(r.Context(), tag)))
		})
	}
}
