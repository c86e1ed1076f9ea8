package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hanulkim/blog-discovery/app/database"
	"github.com/hanulkim/blog-discovery/app/docs"
)

type RegenerateDocumentTask struct {
	Task
	DocConfig   *docs.Config
	regenerator RegeneratorInterface
}

func NewRegenerateDocumentTask(kind string, docConfig *docs.Config, regenerator RegeneratorInterface) *RegenerateDocumentTask {
	return &RegenerateDocumentTask{
		Task:        NewTask(TaskTypeRegenerateDocument, kind),
		DocConfig:   docConfig,
		regenerator: regenerator,
	}
}

func (t *RegenerateDocumentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.DocConfig.Settings.Enabled {
		slog.Debug("Document disabled, skipping", "kind", t.Kind)
		return nil
	}

	result, err := t.regenerator.Run(t.Kind)
	if err != nil {
		// another writer won the race; the next tick regenerates from the
		// fresh baseline, so this is not a retryable failure
		if errors.Is(err, database.ErrVersionConflict) {
			slog.Warn("Concurrent regeneration detected, skipping", "kind", t.Kind)
			return nil
		}
		return fmt.Errorf("failed to regenerate document: %w", err)
	}

	slog.Info("Task completed",
		"type", "RegenerateDocument",
		"kind", t.Kind,
		"duration", t.GetDuration(),
		"added", len(result.Diff.Added),
		"removed", len(result.Diff.Removed))

	return nil
}
