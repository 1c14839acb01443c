package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/otomarket/moderation-backend/internal/config"
	"github.com/otomarket/moderation-backend/internal/handlers"
	"github.com/otomarket/moderation-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	signalHandler *handlers.SignalHandler,
	moderationHandler *handlers.ModerationHandler,
	qualityHandler *handlers.QualityHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// User/dealer reports — stricter limit to dampen report spam
	reports := api.Group("/reports")
	reports.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	reports.Post("/", middleware.JWTProtected(cfg), signalHandler.SubmitReport)

	// Automated detector ingestion (shared-token auth, no JWT)
	api.Post("/signals", middleware.DetectorAuth(cfg), signalHandler.SubmitDetectorSignal)

	// Moderation panel
	mod := api.Group("/moderation", middleware.JWTProtected(cfg), middleware.ModeratorRequired(cfg))
	mod.Get("/reports", moderationHandler.ListReports)
	mod.Get("/reports/:id", moderationHandler.GetReport)
	mod.Post("/reports/:id/investigate", moderationHandler.Investigate)
	mod.Post("/reports/:id/resolve", moderationHandler.Resolve)
	mod.Post("/reports/:id/dismiss", moderationHandler.Dismiss)
	mod.Post("/reports/:id/escalate", moderationHandler.Escalate)
	mod.Post("/reports/bulk", moderationHandler.BulkTransition)
	mod.Post("/flags", signalHandler.SubmitFlag)
	mod.Post("/listings/:id/quality-check", qualityHandler.RunAssessment)
}
