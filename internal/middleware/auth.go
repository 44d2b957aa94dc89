package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/model"
)

// SessionResolver maps an inbound session token to its subject.
// An anonymous outcome is (nil, nil); an error means the session store
// could not be consulted at all.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Subject, error)
}

// AuthConfig holds configuration for the session middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Sessions   SessionResolver
	CookieName string
}

// Auth returns a middleware that gates protected routes on a valid session.
// It reads the session cookie, resolves it to a subject, and injects the
// subject into the request context. Anonymous requests get a uniform 401
// whether the cookie is absent, malformed, or expired.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r, cfg.CookieName)
			if token == "" {
				cfg.Logger.Warn("request rejected",
					slog.String("reason", "missing_session"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeUnauthorized(w)
				return
			}

			subject, err := cfg.Sessions.Resolve(r.Context(), token)
			if err != nil {
				cfg.Logger.Error("session store error",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeStoreError(w)
				return
			}

			if subject == nil {
				cfg.Logger.Warn("request rejected",
					slog.String("reason", "invalid_session"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeUnauthorized(w)
				return
			}

			ctx := auth.ContextWithSubject(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken extracts the session token from the request cookie.
func sessionToken(r *http.Request, cookieName string) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// writeUnauthorized writes a 401 response.
// Uses the same message for all rejection reasons to prevent enumeration.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Authentication required"}}`))
}

// writeStoreError writes a 500 response for session store failures.
func writeStoreError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"An internal error occurred"}}`))
}
