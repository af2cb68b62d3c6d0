package tasks

import (
	"context"
	"fmt"
)

// newRelayRetentionTask deletes relay run records older than the configured
// retention.
func newRelayRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "relay_retention")

	return func(ctx context.Context) error {
		cutoff := deps.Clock.Now().Add(-deps.Config.Relay.Retention)
		deleted, err := deps.Store.DeleteRelayRunsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("relay retention failed: %w", err)
		}
		log.InfoContext(ctx, "Relay retention completed", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
