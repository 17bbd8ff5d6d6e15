// Package jobs runs the background maintenance work: warming the analytics
// snapshot and pruning old verification history.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shubhamshk/fraudBusters-App/internal/certificates"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup recomputes and caches the analytics snapshot.
	TaskAnalyticsWarmup = "analytics:warmup"
	// TaskHistoryPrune deletes verification history past retention.
	TaskHistoryPrune = "history:prune"
)

// HistoryPrunePayload carries the retention window for a prune run.
type HistoryPrunePayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewAnalyticsWarmupTask constructs an analytics warmup task.
func NewAnalyticsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskAnalyticsWarmup, nil)
}

// NewHistoryPruneTask constructs a history prune task.
func NewHistoryPruneTask(payload HistoryPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskHistoryPrune, data), nil
}

// NewAnalyticsWarmupHandler processes TaskAnalyticsWarmup tasks.
func NewAnalyticsWarmupHandler(svc *certificates.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := svc.WarmAnalytics(ctx); err != nil {
			logger.Error("analytics warmup", slog.Any("error", err))
			return err
		}
		logger.Info("analytics snapshot warmed", slog.String("job", TaskAnalyticsWarmup))
		return nil
	}
}

// NewHistoryPruneHandler processes TaskHistoryPrune tasks.
func NewHistoryPruneHandler(svc *certificates.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload HistoryPrunePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		retention := time.Duration(payload.RetentionHours) * time.Hour
		if retention <= 0 {
			return asynq.SkipRetry
		}
		dropped, err := svc.PruneHistory(ctx, retention)
		if err != nil {
			logger.Error("history prune", slog.Any("error", err))
			return err
		}
		logger.Info("pruned verification history",
			slog.String("job", TaskHistoryPrune),
			slog.Int64("dropped", dropped),
		)
		return nil
	}
}
