package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// NewPromoStatusHandler reports whether the promo modal should be shown.
func NewPromoStatusHandler(deps HandlerDeps) fiber.Handler {
	log := deps.Logger.With("handler", "promo_status")

	return func(c *fiber.Ctx) error {
		status, err := deps.Promo.Status(c.UserContext(), visitorID(c))
		if err != nil {
			log.ErrorContext(c.UserContext(), "Failed to get promo status", "error", err)
			return fiber.ErrInternalServerError
		}
		return c.JSON(status)
	}
}

// NewPromoShownHandler records that the modal was displayed.
func NewPromoShownHandler(deps HandlerDeps) fiber.Handler {
	log := deps.Logger.With("handler", "promo_shown")

	return func(c *fiber.Ctx) error {
		if err := deps.Promo.MarkShown(c.UserContext(), visitorID(c)); err != nil {
			log.ErrorContext(c.UserContext(), "Failed to mark promo shown", "error", err)
			return fiber.ErrInternalServerError
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
