package tasks

import (
	"context"

	"github.com/vmelnik/textmind/app/analyzer"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the content service to dispatch background analysis work.
// Example usage:
//
//	scheduler := NewScheduler(contentRepo, textAnalyzer, responseCache)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewAnalyzeContentTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// AnalyzerInterface abstracts the text analyzer for tasks and tests.
// Run never fails; degraded results are ordinary values.
type AnalyzerInterface interface {
	Run(ctx context.Context, text string) analyzer.Result
}

var _ AnalyzerInterface = (*analyzer.Analyzer)(nil)
