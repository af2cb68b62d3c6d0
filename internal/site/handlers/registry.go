package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisteredRoute represents an API route with its handler and middleware.
type RegisteredRoute struct {
	Method     string
	Path       string
	Handler    fiber.Handler
	Middleware []fiber.Handler
}

// RegisterAllRoutes initializes and returns all API routes keyed by
// "METHOD path".
func RegisterAllRoutes(deps HandlerDeps) map[string]RegisteredRoute {
	routes := make(map[string]RegisteredRoute)
	add := func(method, path string, h fiber.Handler, mw ...fiber.Handler) {
		routes[method+" "+path] = RegisteredRoute{Method: method, Path: path, Handler: h, Middleware: mw}
	}

	add(fiber.MethodGet, "/health", NewHealthHandler(deps))

	add(fiber.MethodGet, "/api/tariffs", NewTariffsHandler(deps))
	add(fiber.MethodGet, "/api/pricing", NewPricingHandler(deps))
	add(fiber.MethodGet, "/api/channels", NewChannelsHandler(deps))
	add(fiber.MethodGet, "/api/news", NewNewsHandler(deps))
	add(fiber.MethodGet, "/api/news/:id", NewNewsItemHandler(deps))
	add(fiber.MethodGet, "/api/faq", NewFAQHandler(deps))
	add(fiber.MethodGet, "/api/contacts", NewContactsHandler(deps))

	visitorMiddleware := VisitorCookie(deps)

	add(fiber.MethodGet, "/api/visitor", NewVisitorHandler(deps), visitorMiddleware)
	add(fiber.MethodGet, "/api/promo", NewPromoStatusHandler(deps), visitorMiddleware)
	add(fiber.MethodPost, "/api/promo/shown", NewPromoShownHandler(deps), visitorMiddleware)

	add(fiber.MethodPost, "/api/chat/sessions", NewChatOpenHandler(deps))
	add(fiber.MethodGet, "/api/chat/sessions/:id", NewChatGetHandler(deps))
	add(fiber.MethodPost, "/api/chat/sessions/:id/messages", NewChatSendHandler(deps))
	add(fiber.MethodDelete, "/api/chat/sessions/:id", NewChatCloseHandler(deps))

	add(fiber.MethodGet, "/api/relay/runs", NewRelayRunsHandler(deps), RequireAdminToken(deps))

	add(fiber.MethodGet, "/api/voice", NewVoiceHandler(deps), RequireWebSocket())

	return routes
}

// Mount attaches routes to r.
func Mount(r fiber.Router, routes map[string]RegisteredRoute) {
	for _, rt := range routes {
		chain := append(append([]fiber.Handler(nil), rt.Middleware...), rt.Handler)
		r.Add(rt.Method, rt.Path, chain...)
	}
}
