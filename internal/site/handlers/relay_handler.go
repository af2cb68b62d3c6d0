package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// NewRelayRunsHandler lists recent relay runs, newest first. The records hold
// customer contact data; mount it behind RequireAdminToken only.
func NewRelayRunsHandler(deps HandlerDeps) fiber.Handler {
	log := deps.Logger.With("handler", "relay_runs")

	return func(c *fiber.Ctx) error {
		runs, err := deps.Store.ListRelayRuns(c.UserContext(), c.QueryInt("limit", 20))
		if err != nil {
			log.ErrorContext(c.UserContext(), "Failed to list relay runs", "error", err)
			return fiber.ErrInternalServerError
		}
		return c.JSON(runs)
	}
}
