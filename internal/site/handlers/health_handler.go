package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// NewHealthHandler reports whether the database is reachable.
func NewHealthHandler(deps HandlerDeps) fiber.Handler {
	log := deps.Logger.With("handler", "health")

	return func(c *fiber.Ctx) error {
		if err := deps.Store.Ping(c.UserContext()); err != nil {
			log.WarnContext(c.UserContext(), "Health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
