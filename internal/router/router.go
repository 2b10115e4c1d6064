package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eco-campus/ecotrack-api/internal/config"
	"github.com/eco-campus/ecotrack-api/internal/handler"
	"github.com/eco-campus/ecotrack-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	RecyclingLogHandler *handler.RecyclingLogHandler
	NotificationHandler *handler.NotificationHandler
	UserHandler         *handler.UserHandler
	EventHandler        *handler.EventHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.RecyclingLogHandler != nil {
		logs := api.Group("/recycling", jwtMiddleware)
		deps.RecyclingLogHandler.Register(logs)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.UserHandler != nil {
		users := api.Group("/users", jwtMiddleware)
		deps.UserHandler.Register(users)
	}

	if deps.EventHandler != nil {
		events := api.Group("/events", jwtMiddleware)
		deps.EventHandler.Register(events)
	}
}
