package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/rayan-crm-api/internal/config"
	"github.com/noah-isme/rayan-crm-api/internal/handler"
	"github.com/noah-isme/rayan-crm-api/internal/middleware"
	"github.com/noah-isme/rayan-crm-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler    *handler.StudentHandler
	CatalogHandler    *handler.CatalogHandler
	FinanceHandler    *handler.FinanceHandler
	ActivityHandler   *handler.ActivityHandler
	ScreenHandler     *handler.ScreenHandler
	ChangeFeedHandler *handler.ChangeFeedHandler
	DatasetHandler    *handler.DatasetHandler
	Revision          func() uint64
	HealthChecks      map[string]handler.HealthCheckFunc
	JWTMiddleware     fiber.Handler
	RateLimiter       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group(middleware.APIPrefix, func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Revision, deps.HealthChecks))

	if deps.ScreenHandler != nil {
		deps.ScreenHandler.Register(api.Group("/screens"))
	}

	// Everything below requires a bearer token when a JWT secret is configured.
	authenticated := cfg.JWTSecret != "" && deps.JWTMiddleware != nil
	protected := api
	if authenticated {
		protected = api.Group("", deps.JWTMiddleware)
	}
	if deps.RateLimiter != nil {
		protected.Use(mutationsOnly(deps.RateLimiter))
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(protected.Group("/students"))
	}
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(protected)
	}
	if deps.FinanceHandler != nil {
		deps.FinanceHandler.Register(protected)
	}
	if deps.ActivityHandler != nil {
		activity := protected.Group("/activity")
		if authenticated {
			activity.Use(middleware.WithAuth(passThrough, middleware.AuthOptions{Role: middleware.AuthRoleStaff}))
		}
		deps.ActivityHandler.Register(activity)
	}
	if deps.ChangeFeedHandler != nil {
		deps.ChangeFeedHandler.Register(protected.Group("/changes"))
	}

	if deps.DatasetHandler != nil {
		admin := protected.Group("/admin")
		if authenticated {
			admin.Use(middleware.RequireRole(middleware.AuthRoleAdmin))
		}
		deps.DatasetHandler.Register(admin)
	}
}

func passThrough(c *fiber.Ctx) error {
	return c.Next()
}

// mutationsOnly applies guard to state-changing requests.
func mutationsOnly(guard fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		return guard(c)
	}
}
