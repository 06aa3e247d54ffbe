package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"mangonet/pkg/requestcontext"
)

// SessionClaims is the subset of token claims the middleware needs.
type SessionClaims struct {
	SessionID string
	Username  string
	Role      string
}

// TokenValidator validates a session token issued at admin login.
type TokenValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// SessionChecker reports whether an issued session is still live. Sessions
// are revocable server-side even though the token itself is stateless.
type SessionChecker interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// RequireSession validates the bearer session token and injects the staff
// identity into the request context. Requests without a live session get 401.
func RequireSession(validator TokenValidator, sessions SessionChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "session token required")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "rejected invalid session token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				unauthorized(w, "invalid or expired session")
				return
			}

			live, err := sessions.Exists(ctx, claims.SessionID)
			if err != nil {
				logger.ErrorContext(ctx, "session lookup failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				unauthorized(w, "invalid or expired session")
				return
			}
			if !live {
				unauthorized(w, "session revoked or expired")
				return
			}

			ctx = requestcontext.WithUsername(ctx, claims.Username)
			ctx = requestcontext.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdminRole allows only full admins through. Standard staff keep
// read and status access but cannot manage settings or users.
func RequireAdminRole(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.Role(ctx) != "admin" {
				logger.WarnContext(ctx, "forbidden admin action",
					"request_id", requestcontext.RequestID(ctx),
					"username", requestcontext.Username(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin role required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
