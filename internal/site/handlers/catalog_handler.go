package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edgard/robornet/internal/catalog"
)

// NewTariffsHandler lists all tariffs.
func NewTariffsHandler(_ HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(catalog.Tariffs())
	}
}

// NewPricingHandler returns the pricing grid with the highlighted card.
func NewPricingHandler(_ HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(catalog.PricingGrid(catalog.Tariffs()))
	}
}

// NewChannelsHandler returns the TV channel catalog.
func NewChannelsHandler(_ HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(catalog.Channels())
	}
}

// NewNewsHandler returns the news feed page for ?visible=N.
func NewNewsHandler(_ HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		visible := c.QueryInt("visible", catalog.NewsInitialVisible)
		return c.JSON(catalog.Page(catalog.News(), visible))
	}
}

// NewNewsItemHandler returns one news item with its full body.
func NewNewsItemHandler(_ HandlerDeps) fiber.Handler {
	type item struct {
		catalog.NewsItem
		FullBody string `json:"body"`
	}
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid news id")
		}
		n, ok := catalog.NewsByID(id)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "news item not found")
		}
		return c.JSON(item{NewsItem: n, FullBody: n.Body()})
	}
}

// NewFAQHandler returns the FAQ entries.
func NewFAQHandler(_ HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(catalog.FAQ())
	}
}

// NewContactsHandler returns the contact and legal details.
func NewContactsHandler(_ HandlerDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(catalog.ContactInfo())
	}
}
