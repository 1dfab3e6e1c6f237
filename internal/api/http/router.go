package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/blood-donation-service/internal/api/http/handlers"
	"github.com/spec-kit/blood-donation-service/internal/auth"
	"github.com/spec-kit/blood-donation-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	BloodRequests  *handlers.BloodRequestsHandler
	Responses      *handlers.ResponsesHandler
	Contacts       *handlers.ContactsHandler
	AuthMiddleware *auth.AuthMiddleware
	// Gatherer backs /metrics; nil skips the endpoint.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireCapability(domain.CapListUsers), cfg.Users.List)
	users.Get("/me", cfg.Users.Me)
	users.Put("/me", cfg.Users.UpdateMe)
	users.Get("/donors", auth.RequireCapability(domain.CapSearchDonors), cfg.Users.SearchDonors)
	users.Get("/email/:email", auth.RequireCapability(domain.CapListUsers), cfg.Users.GetByEmail)
	users.Get("/:id", cfg.Users.Get)
	users.Delete("/:id", cfg.Users.Delete)

	requests := app.Group("/blood-requests", cfg.AuthMiddleware.Handle)
	requests.Post("/", auth.RequireCapability(domain.CapManageRequests), cfg.BloodRequests.Create)
	requests.Get("/mine", auth.RequireCapability(domain.CapManageRequests), cfg.BloodRequests.ListMine)
	requests.Get("/active", cfg.BloodRequests.ListActive)
	requests.Get("/nearby", auth.RequireCapability(domain.CapSearchNearby), cfg.BloodRequests.Nearby)
	requests.Get("/blood-type/:type", cfg.BloodRequests.ListByBloodType)
	requests.Get("/urgency/:level", cfg.BloodRequests.ListByUrgency)
	requests.Get("/:id", cfg.BloodRequests.Get)
	requests.Put("/:id", cfg.BloodRequests.Update)
	requests.Post("/:id/cancel", cfg.BloodRequests.Cancel)
	requests.Post("/:id/complete", cfg.BloodRequests.Complete)
	requests.Post("/:id/responses", cfg.Responses.Respond)
	requests.Get("/:id/responses", cfg.Responses.ListForRequest)

	responses := app.Group("/responses", cfg.AuthMiddleware.Handle)
	responses.Get("/mine", cfg.Responses.ListMine)
	responses.Get("/hospital", cfg.Responses.ListForHospital)
	responses.Delete("/:id", cfg.Responses.Cancel)
	responses.Post("/:id/accept", cfg.Responses.Accept)
	responses.Post("/:id/decline", cfg.Responses.Decline)
	responses.Post("/:id/complete", cfg.Responses.Complete)

	contacts := app.Group("/contacts", cfg.AuthMiddleware.Handle, auth.RequireCapability(domain.CapManageContacts))
	contacts.Post("/", cfg.Contacts.Create)
	contacts.Get("/", cfg.Contacts.List)
	contacts.Get("/same-blood-type", cfg.Contacts.ListSameBloodType)
	contacts.Get("/:id", cfg.Contacts.Get)
	contacts.Put("/:id", cfg.Contacts.Update)
	contacts.Delete("/:id", cfg.Contacts.Delete)
}
