// Package visitor keeps per-browser state that the site persists between
// page loads, keyed by the visitor cookie.
package visitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// SessionPrefix starts every relay chat session id issued to a visitor.
const SessionPrefix = "robornet"

// NewID returns a fresh visitor id for the cookie.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like one issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NewSessionID formats "<prefix>_<unix-ms>_<6 random chars>".
func NewSessionID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return prefix + "_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix
}

// Store is the part of database.Store the visitor service needs.
type Store interface {
	SetVisitorSessionID(ctx context.Context, id, sessionID string) (string, error)
}

// Service issues stable per-visitor identifiers.
type Service struct {
	store Store
	clock clockwork.Clock
}

// NewService creates a visitor service. A nil clock uses the real clock.
func NewService(store Store, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{store: store, clock: clock}
}

// EnsureSessionID generates the visitor's session id on first use and
// returns the stored one afterwards.
func (s *Service) EnsureSessionID(ctx context.Context, visitorID string) (string, error) {
	id, err := s.store.SetVisitorSessionID(ctx, visitorID, NewSessionID(SessionPrefix, s.clock.Now()))
	if err != nil {
		return "", fmt.Errorf("failed to ensure session id: %w", err)
	}
	return id, nil
}
