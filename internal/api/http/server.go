package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/blood-donation-service/internal/config"
	"github.com/spec-kit/blood-donation-service/internal/observability"
)

// NewApp builds the fiber application with the global middleware stack.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		ErrorHandler:          ErrorHandler(logger),
		DisableStartupMessage: true,
		// lets /blood-requests/blood-type/AB%2B reach the handler as "AB+"
		UnescapePath: true,
	})
	RegisterMiddlewares(app, logger, metrics, cfg.RequestTimeout())
	return app
}
