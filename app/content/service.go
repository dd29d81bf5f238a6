// Package content implements the content lifecycle: owner-scoped
// create, list, fetch and delete, cache-first reads with explicit
// invalidation around every mutation, and scheduling of background
// analysis after creation. The store is authoritative; the cache is
// best-effort and every cache failure degrades to a store read.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/vmelnik/textmind/app/cache"
	"github.com/vmelnik/textmind/app/cfg"
	"github.com/vmelnik/textmind/app/database"
	"github.com/vmelnik/textmind/app/tasks"
)

// ErrNotFound covers both a missing id and a foreign owner, so a
// caller cannot distinguish another user's content from no content.
var ErrNotFound = errors.New("content not found")

// ListResult is the list view payload, cached as one unit.
type ListResult struct {
	Total    int                `json:"total"`
	Contents []database.Content `json:"contents"`
}

type Service struct {
	contentRepo database.ContentRepository
	respCache   cache.Cache
	scheduler   tasks.TaskSchedulerInterface
	analyzer    tasks.AnalyzerInterface
	cacheTTL    time.Duration
}

func NewService(contentRepo database.ContentRepository, respCache cache.Cache,
	scheduler tasks.TaskSchedulerInterface, analyzer tasks.AnalyzerInterface) *Service {
	cfg := cfg.Get()

	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}

	return &Service{
		contentRepo: contentRepo,
		respCache:   respCache,
		scheduler:   scheduler,
		analyzer:    analyzer,
		cacheTTL:    ttl,
	}
}

// Create persists a new unanalyzed record, invalidates the owner's
// list view, and schedules exactly one analysis task carrying the id
// and the submitted text. The record is returned before any analysis
// happens; a failed enqueue is logged and never surfaced.
func (s *Service) Create(ctx context.Context, userID, textBody string) (*database.Content, error) {
	content, err := s.contentRepo.InsertContent(userID, textBody)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.UserContentsKey(userID))

	task := tasks.NewAnalyzeContentTask(content.ID, textBody, s.analyzer, s.contentRepo, s.respCache)
	if err := s.scheduler.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue AnalyzeContentTask", "content_id", content.ID, "error", err)
	}

	return content, nil
}

// List returns all of the owner's records wrapped with a total count,
// serving from the cache when possible.
func (s *Service) List(ctx context.Context, userID string) (*ListResult, error) {
	key := cache.UserContentsKey(userID)

	var cached ListResult
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	contents, err := s.contentRepo.ListContentsForUser(userID)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Total: len(contents), Contents: contents}
	s.writeCache(ctx, key, result)

	return result, nil
}

// GetByID returns a single owner-scoped record or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, userID, contentID string) (*database.Content, error) {
	key := cache.ContentKey(userID, contentID)

	var cached database.Content
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	content, err := s.contentRepo.GetContentForUser(contentID, userID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrNotFound
	}

	s.writeCache(ctx, key, content)

	return content, nil
}

// Delete removes an owner-scoped record and invalidates both cached
// views. A repeat delete yields ErrNotFound again.
func (s *Service) Delete(ctx context.Context, userID, contentID string) error {
	deleted, err := s.contentRepo.DeleteContentForUser(contentID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.invalidate(ctx, cache.UserContentsKey(userID), cache.ContentKey(userID, contentID))

	return nil
}

// readCache reports whether key held a decodable entry. Unreadable or
// corrupt entries count as misses.
func (s *Service) readCache(ctx context.Context, key string, dest interface{}) bool {
	payload, hit, err := s.respCache.Get(ctx, key)
	if err != nil {
		slog.Warn("Cache read failed, falling through to store", "key", key, "error", err)
		return false
	}
	if !hit {
		return false
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		slog.Warn("Cache entry is not valid JSON, treating as miss", "key", key)
		return false
	}

	return true
}

func (s *Service) writeCache(ctx context.Context, key string, value interface{}) {
	if err := s.respCache.Set(ctx, key, value, s.cacheTTL); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.respCache.Delete(ctx, keys...); err != nil {
		slog.Warn("Cache invalidation failed", "keys", keys, "error", err)
	}
}
