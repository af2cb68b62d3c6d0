// Package handlers contains the HTTP and WebSocket handlers of the site API,
// along with their registration logic and middleware.
package handlers

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/robornet/internal/chat"
	"github.com/edgard/robornet/internal/config"
	"github.com/edgard/robornet/internal/database"
	"github.com/edgard/robornet/internal/promo"
	"github.com/edgard/robornet/internal/visitor"
	"github.com/edgard/robornet/internal/voice"
)

// HandlerDeps provides dependencies for the site handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Chat     *chat.Manager
	Promo    *promo.Service
	Visitors *visitor.Service
	Clock    clockwork.Clock

	// Voice is the template for every voice session; OnEnded is set per
	// connection.
	Voice voice.Options
}
