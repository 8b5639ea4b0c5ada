package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

var errForbidden = errors.New("admin access required")

// Middleware rejects requests without a valid session token and stores
// the Session in the request context for the next handler.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(ErrInvalidToken))
			return
		}

		session, err := a.ParseToken(token)
		if err != nil {
			slog.Debug("rejected session token", slog.String("path", r.URL.Path))
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireAdmin must run inside Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		if !ok || !s.IsAdmin() {
			response.WriteJSON(w, http.StatusForbidden, response.GeneralError(errForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
