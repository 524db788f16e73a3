/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request, echoed in audit log lines
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the roster frontend

ROUTE GROUPS:
  /api/audit, /api/capacity, /api/registry, /api/rest   Stateless evaluation
  /api/audit/diff, /api/repair/instructions             Repair workflow
  /api/rosters/*                                        Stored rosters
  /api/audit-runs                                       Sweeper history
  /api/scenarios/*                                      Demo rosters
  /                                                     Endpoint index

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/roster/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins is used when no CORS origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Stateless evaluation
		r.Post("/audit", h.Audit)
		r.Post("/audit/diff", h.AuditDiff)
		r.Post("/capacity", h.Capacity)
		r.Post("/registry", h.Registry)
		r.Post("/rest", h.Rest)
		r.Post("/repair/instructions", h.RepairInstructions)

		// Stored rosters
		r.Route("/rosters", func(r chi.Router) {
			r.Get("/", h.ListRosters)
			r.Post("/", h.CreateRoster)
			r.Get("/{id}", h.GetRoster)
			r.Delete("/{id}", h.DeleteRoster)
			r.Get("/{id}/audit", h.AuditRoster)
			r.Get("/{id}/capacity", h.RosterCapacity)
			r.Get("/{id}/registry", h.RosterRegistry)
		})

		r.Get("/audit-runs", h.ListAuditRuns)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Roster Compliance Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Roster Compliance Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/rosters">/api/rosters</a> - Stored rosters</li>
<li><a href="/api/audit-runs">/api/audit-runs</a> - Audit history</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo rosters</li>
<li>POST /api/audit, /api/capacity, /api/registry, /api/rest - Evaluate a snapshot</li>
</ul>
</body>
</html>`))
	})

	return r
}
