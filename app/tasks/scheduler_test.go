package tasks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmelnik/textmind/app/analyzer"
	"github.com/vmelnik/textmind/app/cfg"
	"github.com/vmelnik/textmind/app/database"
)

func newTestScheduler(t *testing.T, repo database.ContentRepository) *Scheduler {
	t.Helper()

	cfg.Set(&cfg.Cfg{WorkerCount: 2, SchedulerInterval: 1})

	return NewScheduler(repo, &MockAnalyzer{result: analyzer.Result{
		Summary: "s", Sentiment: database.SentimentNeutral,
	}}, &RecordingCache{})
}

// countingTask records executions
type countingTask struct {
	Task
	executed chan struct{}
}

func newCountingTask() *countingTask {
	return &countingTask{
		Task:     NewTask(TaskTypeAnalyzeContent, "c1"),
		executed: make(chan struct{}, 1),
	}
}

func (t *countingTask) Execute(ctx context.Context) error {
	t.executed <- struct{}{}
	return nil
}

func TestScheduler_ExecutesEnqueuedTask(t *testing.T) {
	s := newTestScheduler(t, NewMockContentRepository())
	s.Start()
	defer s.Stop()

	task := newCountingTask()
	require.NoError(t, s.EnqueueTask(task))

	select {
	case <-task.executed:
	case <-time.After(2 * time.Second):
		t.Fatal("Task was not executed")
	}
}

func TestScheduler_QueueFull(t *testing.T) {
	s := newTestScheduler(t, NewMockContentRepository())
	// Not started: nothing drains the queue

	var err error
	for i := 0; i <= taskQueueSize; i++ {
		err = s.EnqueueTask(newCountingTask())
		if err != nil {
			break
		}
	}

	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestScheduler_EnqueueAfterStop(t *testing.T) {
	s := newTestScheduler(t, NewMockContentRepository())
	s.Start()
	s.Stop()

	err := s.EnqueueTask(newCountingTask())
	require.ErrorIs(t, err, context.Canceled)
}

func TestScheduler_EnqueueAfterStopNeverPanics(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := newTestScheduler(t, NewMockContentRepository())
		s.Start()
		s.Stop()

		require.NotPanics(t, func() {
			err := s.EnqueueTask(newCountingTask())
			require.Error(t, err)
		}, "iteration %d", i)
	}
}

func TestScheduler_PendingSweepReschedulesStaleContent(t *testing.T) {
	repo := NewMockContentRepository()
	repo.contents["stale"] = database.Content{
		ID: "stale", UserID: "u1", TextBody: "old text never analyzed",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	repo.contents["fresh"] = database.Content{
		ID: "fresh", UserID: "u1", TextBody: "just created",
		CreatedAt: time.Now(),
	}

	s := newTestScheduler(t, repo)
	s.enqueuePendingTasks()

	// Only the stale record is older than the grace period
	require.Len(t, s.taskQueue, 1)
	task := <-s.taskQueue
	assert.Equal(t, "stale", task.GetContentID())
}

func TestScheduler_StopWaitsForWorkers(t *testing.T) {
	s := newTestScheduler(t, NewMockContentRepository())
	s.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Stop()
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
