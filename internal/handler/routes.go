// Package handler wires the HTTP surface: guest invitation and RSVP routes,
// and the gate-protected admin roster routes.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invitacion-boda/internal/auth"
	"invitacion-boda/internal/config"
	"invitacion-boda/internal/service"
)

// AdminLoginPath is where the gate redirects unauthenticated admin requests.
const AdminLoginPath = "/api/admin/login"

// Register mounts every route on the app.
func Register(app *fiber.App, svc *service.RSVPService, cfg *config.Config, gate *auth.Gate, sessions *session.Store) {
	guest := NewGuestHandler(svc, cfg, sessions)
	admin := NewAdminHandler(svc, gate)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", guest.Landing)
	app.Get("/api/invitation/:count", guest.Invitation)
	app.Get("/api/invitation/:count/calendar", guest.CalendarArtifacts)

	app.Post("/api/guest/session", guest.StartSession)
	app.Get("/api/guest/session", guest.Session)
	app.Delete("/api/guest/session", guest.EndSession)

	app.Get("/api/rsvp/status", guest.Status)
	app.Post("/api/rsvp/confirm", guest.Confirm)
	app.Post("/api/rsvp/cancel", guest.CancelRSVP)

	adminGroup := app.Group("/api/admin", admin.Middleware())
	adminGroup.Post("/login", admin.Login)
	adminGroup.Get("/attendees", admin.List)
	adminGroup.Put("/attendees/:id", admin.Update)
	adminGroup.Post("/attendees/:id/archive", admin.ToggleArchive)
	adminGroup.Delete("/attendees", admin.ClearAll)
}
