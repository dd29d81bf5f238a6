package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmelnik/textmind/app/cache"
	"github.com/vmelnik/textmind/app/database"
)

// AnalyzeContentTask enriches a content record with an AI summary and
// sentiment. It runs detached from the request that scheduled it: the
// original text is captured at schedule time, while the record itself
// is re-fetched at execution time so a concurrent delete makes the
// task a silent no-op.
type AnalyzeContentTask struct {
	Task
	TextBody    string
	analyzer    AnalyzerInterface
	contentRepo database.ContentRepository
	respCache   cache.Cache
}

func NewAnalyzeContentTask(contentID, textBody string, analyzer AnalyzerInterface,
	contentRepo database.ContentRepository, respCache cache.Cache) *AnalyzeContentTask {
	return &AnalyzeContentTask{
		Task:        NewTask(TaskTypeAnalyzeContent, contentID),
		TextBody:    textBody,
		analyzer:    analyzer,
		contentRepo: contentRepo,
		respCache:   respCache,
	}
}

func (t *AnalyzeContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result := t.analyzer.Run(ctx, t.TextBody)

	content, err := t.contentRepo.GetContent(t.ContentID)
	if err != nil {
		return fmt.Errorf("failed to re-fetch content: %w", err)
	}
	if content == nil {
		// Deleted while the analysis was in flight
		slog.Debug("Content vanished before analysis write, skipping", "content_id", t.ContentID)
		return nil
	}

	if err := t.contentRepo.UpdateAnalysis(t.ContentID, result.Summary, result.Sentiment); err != nil {
		return fmt.Errorf("failed to store analysis result: %w", err)
	}

	// Owner comes from the fetched record, not the task input
	keys := []string{
		cache.UserContentsKey(content.UserID),
		cache.ContentKey(content.UserID, t.ContentID),
	}
	if err := t.respCache.Delete(ctx, keys...); err != nil {
		slog.Warn("Failed to invalidate cache after analysis", "content_id", t.ContentID, "error", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"content_id", t.ContentID,
		"sentiment", result.Sentiment,
		"duration", t.GetDuration())

	return nil
}
