package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hanulkim/blog-discovery/app/cfg"
	"github.com/hanulkim/blog-discovery/app/database"
	"github.com/hanulkim/blog-discovery/app/docs"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configCache   *docs.ConfigCache
	documents     database.DocumentStore
	statsRepo     database.ViewStatsStore
	regenerator   RegeneratorInterface
	retentionDays int
	interval      time.Duration
	workerCount   int
	lastPrune     time.Time
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(configCache *docs.ConfigCache, documents database.DocumentStore,
	statsRepo database.ViewStatsStore, regenerator RegeneratorInterface) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		configCache:   configCache,
		documents:     documents,
		statsRepo:     statsRepo,
		regenerator:   regenerator,
		retentionDays: cfg.StatsRetention,
		interval:      time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:   cfg.WorkerCount,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	docConfigs := s.configCache.GetEnabledConfigs()
	if len(docConfigs) == 0 {
		slog.Debug("No enabled document configurations found")
	}

	for _, docConfig := range docConfigs {
		task := NewRegenerateDocumentTask(docConfig.Kind, docConfig, s.regenerator)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue RegenerateDocumentTask", "kind", docConfig.Kind, "error", err)
		}
	}

	s.enqueuePruneTask()
}

func (s *Scheduler) enqueueTasks() {
	docConfigs := s.configCache.GetEnabledConfigs()

	for _, docConfig := range docConfigs {
		doc, err := s.documents.GetDocument(docConfig.Kind)
		if err != nil {
			slog.Warn("Failed to get document from database, skipping", "kind", docConfig.Kind, "error", err)
			continue
		}

		now := time.Now().UTC()
		if doc != nil {
			refreshAt := doc.UpdatedAt.Add(time.Duration(docConfig.Settings.RefreshInterval) * time.Second)
			if refreshAt.After(now) {
				slog.Debug("Document not due for regeneration yet", "kind", docConfig.Kind, "refresh_at", refreshAt)
				continue
			}
		}

		task := NewRegenerateDocumentTask(docConfig.Kind, docConfig, s.regenerator)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue RegenerateDocumentTask", "kind", docConfig.Kind, "error", err)
		}
	}

	if time.Since(s.lastPrune) >= 24*time.Hour {
		s.enqueuePruneTask()
	}
}

func (s *Scheduler) enqueuePruneTask() {
	task := NewPruneStatsTask(s.retentionDays, s.statsRepo)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue PruneStatsTask", "error", err)
		return
	}
	s.lastPrune = time.Now()
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "kind", task.GetKind(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
