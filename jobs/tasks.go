package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPurgeUserPosts removes a deleted account's posts, likes and comments.
	TaskPurgeUserPosts = "posts:purge_user"

	purgeMaxRetry = 5
)

// PurgeUserPayload identifies the deleted account.
type PurgeUserPayload struct {
	UserID string `json:"user_id"`
}

// UserPurger performs the purge. posts.Service satisfies it.
type UserPurger interface {
	PurgeUser(ctx context.Context, userID string) error
}

// NewPurgeUserTask constructs an Asynq task.
func NewPurgeUserTask(userID string) (*asynq.Task, error) {
	data, err := json.Marshal(PurgeUserPayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPurgeUserPosts, data, asynq.MaxRetry(purgeMaxRetry)), nil
}

// NewPurgeUserHandler processes TaskPurgeUserPosts tasks. Malformed payloads
// are dropped without retry.
func NewPurgeUserHandler(purger UserPurger, logger *slog.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PurgeUserPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("jobs: decode purge payload: %v: %w", err, asynq.SkipRetry)
		}
		if strings.TrimSpace(payload.UserID) == "" {
			return fmt.Errorf("jobs: purge payload without user id: %w", asynq.SkipRetry)
		}
		if err := purger.PurgeUser(ctx, payload.UserID); err != nil {
			logger.Warn("purge user posts failed", slog.String("user_id", payload.UserID), slog.Any("error", err))
			return err
		}
		return nil
	}
}
