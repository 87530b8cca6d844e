package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/siakad-go-api/internal/config"
	"github.com/noah-isme/siakad-go-api/internal/handler"
	"github.com/noah-isme/siakad-go-api/internal/middleware"
	"github.com/noah-isme/siakad-go-api/internal/models"
	"github.com/noah-isme/siakad-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	ProfileHandler    *handler.ProfileHandler
	DashboardHandler  *handler.DashboardHandler
	ReferenceHandler  *handler.ReferenceHandler
	AttendanceHandler *handler.AttendanceHandler
	GradeHandler      *handler.GradeHandler
	ReportHandler     *handler.ReportHandler
	ActivityHandler   *handler.ActivityHandler
	SeedHandler       *handler.SeedHandler
	JWTMiddleware     fiber.Handler
	HealthProbes      []handler.HealthProbe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow))
		deps.AuthHandler.Register(auth)
	}

	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}
	secured := api.Group("", jwtMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin))

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.Register(secured.Group("/me"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(secured.Group("/dashboard"))
	}
	if deps.ReferenceHandler != nil {
		deps.ReferenceHandler.Register(secured)
	}
	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(secured.Group("/attendance"))
	}
	if deps.GradeHandler != nil {
		deps.GradeHandler.Register(secured.Group("/grades"))
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(secured.Group("/reports"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(secured.Group("/activity"))
	}
}
