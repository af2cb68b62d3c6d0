package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// NewVisitorHandler returns the visitor id and its stable relay session id.
func NewVisitorHandler(deps HandlerDeps) fiber.Handler {
	log := deps.Logger.With("handler", "visitor")

	return func(c *fiber.Ctx) error {
		id := visitorID(c)
		sessionID, err := deps.Visitors.EnsureSessionID(c.UserContext(), id)
		if err != nil {
			log.ErrorContext(c.UserContext(), "Failed to ensure visitor session id", "visitor_id", id, "error", err)
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"visitor_id": id, "session_id": sessionID})
	}
}
