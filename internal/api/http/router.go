package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/http/handlers"
	"github.com/spec-kit/storefront-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The split between public and gated routes
// is part of the security contract: only registration and authentication are
// reachable without a verified token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	gate := cfg.AuthMiddleware.Handle

	app.Post("/users", cfg.Users.Create)
	app.Post("/usersAuth", cfg.Users.Authenticate)
	app.Get("/users", gate, cfg.Users.List)
	app.Get("/users/:id", gate, cfg.Users.Show)
	app.Delete("/users/:id", gate, cfg.Users.Delete)

	app.Get("/products", gate, cfg.Products.List)
	app.Post("/products", gate, cfg.Products.Create)
	app.Get("/products/category/:category", gate, cfg.Products.ListByCategory)
	app.Get("/products/:id", gate, cfg.Products.Show)
	app.Put("/products/:id", gate, cfg.Products.Update)
	app.Delete("/products/:id", gate, cfg.Products.Delete)
}
