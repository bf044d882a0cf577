package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/voxera-dev/voxera-api/internal/config"
	"github.com/voxera-dev/voxera-api/internal/handler"
	"github.com/voxera-dev/voxera-api/internal/middleware"
	"github.com/voxera-dev/voxera-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TestHandler      *handler.TestHandler
	InterviewHandler *handler.InterviewHandler
	ResponseHandler  *handler.ResponseHandler
	ReportHandler    *handler.ReportHandler
	UploadHandler    *handler.UploadHandler
	MonitorHandler   *handler.MonitorHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Interviewer surface (tests, monitoring)
	if deps.TestHandler != nil {
		testGroup := api.Group("/tests", jwtMiddleware)
		deps.TestHandler.Register(testGroup)
	}

	if deps.MonitorHandler != nil {
		monitorGroup := api.Group("/monitor", jwtMiddleware)
		deps.MonitorHandler.Register(monitorGroup)
	}

	// Candidate surface (device-bound, no account required)
	if deps.InterviewHandler != nil {
		interviewGroup := api.Group("/interviews")
		// Access codes are guessable, keep start attempts per-IP limited.
		interviewGroup.Use("/start", middleware.RateLimit("interview-start", 10, time.Minute))
		deps.InterviewHandler.Register(interviewGroup)
	}

	if deps.ResponseHandler != nil {
		responseGroup := api.Group("/responses")
		deps.ResponseHandler.Register(responseGroup)
	}

	if deps.UploadHandler != nil {
		uploadGroup := api.Group("/uploads")
		deps.UploadHandler.Register(uploadGroup)
	}

	if deps.ReportHandler != nil {
		reportGroup := api.Group("/reports")
		// Evaluation calls out to the LLM provider, keep generation attempts bounded.
		reportLimiter := middleware.RateLimit("report-generate", 5, time.Minute)
		reportGroup.Use(func(c *fiber.Ctx) error {
			if c.Method() == fiber.MethodPost {
				return reportLimiter(c)
			}
			return c.Next()
		})
		deps.ReportHandler.Register(reportGroup)
	}
}
