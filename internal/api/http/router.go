package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-triage/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/dashboard", cfg.Tickets.Dashboard)
	api.Post("/check-inbox", cfg.Tickets.CheckInbox)
	api.Post("/simulate-email", cfg.Tickets.SimulateEmail)
	api.Post("/tickets/clear", cfg.Tickets.Clear)
	api.Post("/tickets/:id/resolve", cfg.Tickets.Resolve)
	api.Post("/tickets/:id/escalate", cfg.Tickets.Escalate)
}
