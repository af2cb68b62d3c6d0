// Package tasks implements the scheduled maintenance tasks of the site.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/robornet/internal/config"
	"github.com/edgard/robornet/internal/database"
)

// ChatSweeper evicts idle chat sessions.
type ChatSweeper interface {
	Sweep(ttl time.Duration) int
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Chat   ChatSweeper
	Config *config.Config
	Clock  clockwork.Clock
}

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error
