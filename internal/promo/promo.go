// Package promo decides whether the promotional modal is shown to a visitor.
package promo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/robornet/internal/catalog"
	"github.com/edgard/robornet/internal/database"
)

// Window is the minimum time between two displays of the modal.
const Window = 24 * time.Hour

// ShouldShow reports whether the modal may be shown at now. ok is false when
// no prior display is recorded.
func ShouldShow(last time.Time, ok bool, now time.Time) bool {
	if !ok {
		return true
	}
	return now.Sub(last) >= Window
}

// Store is the part of database.Store the promo service needs.
type Store interface {
	GetVisitor(ctx context.Context, id string) (*database.Visitor, error)
	MarkPromoShown(ctx context.Context, id string, at time.Time) error
}

// Status is what the site needs to render the modal.
type Status struct {
	Show        bool          `json:"show"`
	Promo       catalog.Promo `json:"promo"`
	LastShownAt *time.Time    `json:"last_shown_at,omitempty"`
}

// Service reads and records promo displays per visitor.
type Service struct {
	store Store
	clock clockwork.Clock
	log   *slog.Logger
}

// NewService creates a promo service. A nil clock uses the real clock.
func NewService(store Store, clock clockwork.Clock, log *slog.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, clock: clock, log: log.With("component", "promo")}
}

// Status returns whether the visitor should see the modal now.
func (s *Service) Status(ctx context.Context, visitorID string) (Status, error) {
	st := Status{Promo: catalog.PromoData()}

	v, err := s.store.GetVisitor(ctx, visitorID)
	if err != nil {
		return st, fmt.Errorf("failed to load visitor %s: %w", visitorID, err)
	}

	var last time.Time
	ok := v != nil && v.PromoShownAt.Valid
	if ok {
		last = v.PromoShownAt.Time
		st.LastShownAt = &last
	}
	st.Show = ShouldShow(last, ok, s.clock.Now())

	s.log.DebugContext(ctx, "Promo status", "visitor_id", visitorID, "show", st.Show)
	return st, nil
}

// MarkShown records a display at the current time.
func (s *Service) MarkShown(ctx context.Context, visitorID string) error {
	if err := s.store.MarkPromoShown(ctx, visitorID, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to record promo display: %w", err)
	}
	return nil
}
