package tasks

import (
	"context"
)

func newChatSessionSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "chat_session_sweep")

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		removed := deps.Chat.Sweep(deps.Config.Chat.SessionTTL)
		log.InfoContext(ctx, "Idle chat sessions evicted", "removed", removed, "ttl", deps.Config.Chat.SessionTTL)
		return nil
	}
}
