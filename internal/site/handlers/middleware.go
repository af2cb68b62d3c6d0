package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"

	"github.com/edgard/robornet/internal/visitor"
)

const (
	// VisitorCookieName is the default name of the cookie holding the
	// visitor id.
	VisitorCookieName = "robornet_visitor"
	visitorLocalKey   = "visitor_id"
	visitorCookieTTL  = 365 * 24 * time.Hour
)

// VisitorCookie ensures every request carries a valid visitor id, issuing a
// new cookie and visitor record when the browser has none.
func VisitorCookie(deps HandlerDeps) fiber.Handler {
	log := deps.Logger.With("middleware", "VisitorCookie")
	name := VisitorCookieName
	if deps.Config != nil && deps.Config.HTTP.VisitorCookie != "" {
		name = deps.Config.HTTP.VisitorCookie
	}

	return func(c *fiber.Ctx) error {
		id := c.Cookies(name)
		if !visitor.ValidID(id) {
			id = visitor.NewID()
			log.DebugContext(c.UserContext(), "Issuing visitor cookie", "visitor_id", id)
			c.Cookie(&fiber.Cookie{
				Name:     name,
				Value:    id,
				Path:     "/",
				Expires:  deps.Clock.Now().Add(visitorCookieTTL),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
			if deps.Store != nil {
				if _, err := deps.Store.EnsureVisitor(c.UserContext(), id); err != nil {
					log.WarnContext(c.UserContext(), "Failed to create visitor record", "visitor_id", id, "error", err)
				}
			}
		}
		c.Locals(visitorLocalKey, id)
		return c.Next()
	}
}

func visitorID(c *fiber.Ctx) string {
	id, _ := c.Locals(visitorLocalKey).(string)
	return id
}

// RequireAdminToken guards operator endpoints with a bearer token taken from
// http.admin_token. While no token is configured the endpoints do not exist.
func RequireAdminToken(deps HandlerDeps) fiber.Handler {
	var token string
	if deps.Config != nil {
		token = deps.Config.HTTP.AdminToken
	}
	if token == "" {
		return func(*fiber.Ctx) error { return fiber.ErrNotFound }
	}

	log := deps.Logger.With("middleware", "RequireAdminToken")
	want := sha256.Sum256([]byte(token))

	return keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(_ *fiber.Ctx, key string) (bool, error) {
			got := sha256.Sum256([]byte(key))
			if subtle.ConstantTimeCompare(want[:], got[:]) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			log.WarnContext(c.UserContext(), "Rejected operator request", "path", c.Path(), "ip", c.IP())
			return fiber.ErrUnauthorized
		},
	})
}

// RequireWebSocket rejects plain HTTP requests to WebSocket endpoints.
func RequireWebSocket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}

// ErrorHandler renders errors as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
