package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AshwinGadhvi/VideoTube/internal/handlers"
	"github.com/AshwinGadhvi/VideoTube/internal/middlewares"
	"github.com/AshwinGadhvi/VideoTube/internal/token"
)

func Setup(app *fiber.App, h *handlers.Handler, tokens *token.Service) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api/v1")
	users := api.Group("/users")

	users.Post("/register", h.Register)
	users.Post("/login", h.Login)
	users.Post("/refresh-token", h.Refresh)

	auth := middlewares.RequireAuth(tokens)
	users.Post("/logout", auth, h.Logout)
	users.Get("/current-user", auth, h.CurrentUser)
	users.Post("/change-password", auth, h.ChangePassword)
}
