package tasks

import (
	"context"
	"fmt"
)

// newSQLMaintenanceTask compacts the SQLite file and reports what it holds:
// the size reclaimed, visitor and relay run counts, and how many runs the
// helpdesk never acknowledged, the first sign of a changed relay script.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		startTime := deps.Clock.Now()

		before, err := deps.Store.Stats(ctx)
		if err != nil {
			log.WarnContext(ctx, "Could not read database stats before maintenance", "error", err)
		}

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance task failed", "error", err, "duration", deps.Clock.Since(startTime))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		after, err := deps.Store.Stats(ctx)
		if err != nil {
			log.WarnContext(ctx, "Could not read database stats after maintenance", "error", err)
			return nil
		}

		log.InfoContext(ctx, "SQL maintenance completed",
			"duration", deps.Clock.Since(startTime),
			"size_bytes", after.SizeBytes(),
			"reclaimed_bytes", max(before.SizeBytes()-after.SizeBytes(), 0),
			"visitors", after.Visitors,
			"relay_runs", after.RelayRuns,
			"unacknowledged_runs", after.UnacknowledgedRuns)
		if after.RelayRuns > 0 && after.UnacknowledgedRuns == after.RelayRuns {
			log.WarnContext(ctx, "No stored relay run was acknowledged by the helpdesk", "relay_runs", after.RelayRuns)
		}
		return nil
	}
}
