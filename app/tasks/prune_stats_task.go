package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hanulkim/blog-discovery/app/database"
)

// PruneStatsTask deletes daily view stat rows older than the retention
// window. Raw per-day rows otherwise grow without bound.
type PruneStatsTask struct {
	Task
	RetentionDays int
	statsRepo     database.ViewStatsStore
}

func NewPruneStatsTask(retentionDays int, statsRepo database.ViewStatsStore) *PruneStatsTask {
	return &PruneStatsTask{
		Task:          NewTask(TaskTypePruneStats, "stats"),
		RetentionDays: retentionDays,
		statsRepo:     statsRepo,
	}
}

func (t *PruneStatsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -t.RetentionDays)

	deleted, err := t.statsRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune view stats: %w", err)
	}

	slog.Info("Task completed",
		"type", "PruneStats",
		"duration", t.GetDuration(),
		"retention_days", t.RetentionDays,
		"deleted", deleted)

	return nil
}
