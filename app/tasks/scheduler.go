package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vmelnik/textmind/app/cache"
	"github.com/vmelnik/textmind/app/cfg"
	"github.com/vmelnik/textmind/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	taskQueueSize = 300
	taskTimeout   = 60 * time.Second

	// Unanalyzed records younger than this are assumed to have a task
	// in flight and are left alone by the sweep.
	pendingGracePeriod = 10 * time.Minute
	pendingSweepLimit  = 100
)

type Scheduler struct {
	contentRepo database.ContentRepository
	analyzer    AnalyzerInterface
	respCache   cache.Cache
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(contentRepo database.ContentRepository, analyzer AnalyzerInterface,
	respCache cache.Cache) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		contentRepo: contentRepo,
		analyzer:    analyzer,
		respCache:   respCache,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, taskQueueSize),
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

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueuePendingTasks()
			}
		}
	}()
}

// Stop cancels the scheduler context and waits for all workers to
// exit. The queue is left open so a late EnqueueTask cannot panic; it
// is rejected instead.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueuePendingTasks re-schedules analysis for records that never got
// their result written, e.g. after a crash between insert and task
// completion.
func (s *Scheduler) enqueuePendingTasks() {
	cutoff := time.Now().UTC().Add(-pendingGracePeriod)

	contents, err := s.contentRepo.ListPendingAnalysis(cutoff, pendingSweepLimit)
	if err != nil {
		slog.Warn("Failed to list contents pending analysis", "error", err)
		return
	}

	if len(contents) == 0 {
		slog.Debug("No contents pending analysis")
		return
	}

	slog.Debug("Re-scheduling pending analysis", "count", len(contents))

	for _, content := range contents {
		task := NewAnalyzeContentTask(content.ID, content.TextBody, s.analyzer, s.contentRepo, s.respCache)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue AnalyzeContentTask", "content_id", content.ID, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
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

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "content_id", task.GetContentID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

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
