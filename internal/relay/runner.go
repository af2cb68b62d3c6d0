package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/robornet/internal/database"
	"github.com/edgard/robornet/internal/lead"
	"github.com/edgard/robornet/internal/visitor"
)

const (
	// SessionPrefix starts the id of every relay conversation.
	SessionPrefix = "robornet_voice"
	// DefaultMaxExchanges bounds the scripted replies after the opening message.
	DefaultMaxExchanges = 14
)

// Poster sends one chat message and returns the reply.
type Poster interface {
	Post(ctx context.Context, sessionID, message string) (string, error)
}

// RunRecorder persists finished runs.
type RunRecorder interface {
	SaveRelayRun(ctx context.Context, run *database.RelayRun) error
}

// Runner drives one relay conversation per lead.
type Runner struct {
	client       Poster
	store        RunRecorder
	clock        clockwork.Clock
	log          *slog.Logger
	maxExchanges int
}

// NewRunner creates a runner. store may be nil, in which case runs are only
// logged.
func NewRunner(client Poster, store RunRecorder, clock clockwork.Clock, log *slog.Logger, maxExchanges int) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if maxExchanges <= 0 {
		maxExchanges = DefaultMaxExchanges
	}
	return &Runner{
		client:       client,
		store:        store,
		clock:        clock,
		log:          log.With("component", "relay_runner"),
		maxExchanges: maxExchanges,
	}
}

// Run opens a fresh backend session and plays the script until the backend
// acknowledges, the script runs out of answers or the budget is spent. Nothing
// is rolled back or verified; the returned record says how far it got.
func (r *Runner) Run(ctx context.Context, l lead.Lead) (*database.RelayRun, error) {
	run := &database.RelayRun{
		SessionID: visitor.NewSessionID(SessionPrefix, r.clock.Now()),
		Name:      l.Name,
		Phone:     l.Phone,
		Address:   l.Address,
		Tariff:    l.Tariff,
		StartedAt: r.clock.Now(),
	}
	log := r.log.With("session_id", run.SessionID)
	log.InfoContext(ctx, "Starting relay conversation", "has_phone", l.Phone != "", "tariff", l.Tariff)

	err := r.converse(ctx, run, l)
	run.FinishedAt = r.clock.Now()
	if err != nil {
		run.Error = err.Error()
		log.ErrorContext(ctx, "Relay conversation failed", "exchanges", run.Exchanges, "error", err)
	} else {
		log.InfoContext(ctx, "Relay conversation finished",
			"exchanges", run.Exchanges, "acknowledged", run.Acknowledged)
	}

	if r.store != nil {
		if saveErr := r.store.SaveRelayRun(context.WithoutCancel(ctx), run); saveErr != nil {
			log.WarnContext(ctx, "Failed to record relay run", "error", saveErr)
		}
	}
	return run, err
}

func (r *Runner) converse(ctx context.Context, run *database.RelayRun, l lead.Lead) error {
	script := NewScript(l)

	reply, err := r.post(ctx, run, OpeningMessage)
	if err != nil {
		return err
	}

	for t := 0; t < r.maxExchanges; t++ {
		msg, ok := script.Next(reply)
		if !ok {
			break
		}
		if reply, err = r.post(ctx, run, msg); err != nil {
			return err
		}
	}
	run.Acknowledged = script.Acknowledged()
	return nil
}

func (r *Runner) post(ctx context.Context, run *database.RelayRun, msg string) (string, error) {
	run.Exchanges++
	reply, err := r.client.Post(ctx, run.SessionID, msg)
	if errors.Is(err, ErrEmptyReply) {
		r.log.DebugContext(ctx, "Relay backend sent an empty reply", "session_id", run.SessionID, "exchange", run.Exchanges)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("exchange %d: %w", run.Exchanges, err)
	}
	return reply, nil
}
