package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/AshwinGadhvi/VideoTube/internal/config"
	"github.com/AshwinGadhvi/VideoTube/internal/handlers"
	"github.com/AshwinGadhvi/VideoTube/internal/middlewares"
	"github.com/AshwinGadhvi/VideoTube/internal/routes"
	"github.com/AshwinGadhvi/VideoTube/internal/token"
	"github.com/AshwinGadhvi/VideoTube/internal/utils"
)

// New initializes the Fiber application with middlewares, routes and the
// error handler that translates every failure into the uniform API shape.
func New(cfg *config.Config, h *handlers.Handler, tokens *token.Service, logger *zap.SugaredLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(cors.New())
	app.Use(middlewares.RequestLogger(logger))

	routes.Setup(app, h, tokens)

	return app
}

// errorHandler is the single boundary translator. ApiErrors pass through
// with their status; anything else becomes a generic 500 with the cause
// logged, never returned.
func errorHandler(logger *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *utils.ApiError
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.StatusCode).JSON(apiErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(utils.NewApiError(fiberErr.Code, fiberErr.Message))
		}

		logger.Errorw("unhandled error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(utils.NewApiError(fiber.StatusInternalServerError, "Internal server error"))
	}
}
