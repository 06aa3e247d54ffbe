// Package httpapi assembles the HTTP surface: public signup endpoints,
// session-gated staff endpoints, and admin-only management endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "mangonet/internal/auth/handler"
	"mangonet/internal/platform/middleware"
	settingshandler "mangonet/internal/settings/handler"
	submissionhandler "mangonet/internal/submission/handler"
)

// Deps carries everything the router mounts.
type Deps struct {
	Submissions *submissionhandler.Handler
	Settings    *settingshandler.Handler
	Auth        *authhandler.Handler

	TokenValidator middleware.TokenValidator
	Sessions       middleware.SessionChecker
	Logger         *slog.Logger
}

// NewRouter wires all endpoints. The public group serves the signup form;
// everything staff-facing sits behind the session middleware, with user and
// settings management further restricted to the admin role.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLog(deps.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		deps.Submissions.RegisterPublic(api)
		deps.Auth.RegisterPublic(api)

		api.Group(func(staff chi.Router) {
			staff.Use(middleware.RequireSession(deps.TokenValidator, deps.Sessions, deps.Logger))
			deps.Submissions.RegisterStaff(staff)
			deps.Auth.RegisterStaff(staff)
			deps.Settings.RegisterRead(staff)

			staff.Group(func(admin chi.Router) {
				admin.Use(middleware.RequireAdminRole(deps.Logger))
				deps.Auth.RegisterAdmin(admin)
				deps.Settings.RegisterWrite(admin)
			})
		})
	})

	return r
}
