package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

const SessionCookie = "logviewer_session"

// TokenValidator checks a session token and returns its user.
type TokenValidator interface {
	Validate(token string) (string, error)
}

type userKey struct{}

// Auth is a middleware factory that requires a valid session token, taken
// from the Authorization bearer header or the session cookie.
func Auth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Warn("session token missing from request", "remote_addr", r.RemoteAddr)
				unauthorized(w, "Unauthorized: login required")
				return
			}

			user, err := validator.Validate(token)
			if err != nil {
				logger.Warn("invalid session token provided", "remote_addr", r.RemoteAddr, "error", err)
				unauthorized(w, "Unauthorized: invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
		})
	}
}

// UserFromContext returns the authenticated user name.
func UserFromContext(ctx context.Context) string {
	u, _ := ctx.Value(userKey{}).(string)
	return u
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
