package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmelnik/textmind/app/analyzer"
	"github.com/vmelnik/textmind/app/cache"
	"github.com/vmelnik/textmind/app/database"
)

// MockAnalyzer implements AnalyzerInterface for testing
type MockAnalyzer struct {
	result analyzer.Result
	calls  int
	mu     sync.Mutex
}

func (m *MockAnalyzer) Run(ctx context.Context, text string) analyzer.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.result
}

func (m *MockAnalyzer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockContentRepository implements an in-memory content store for testing
type MockContentRepository struct {
	contents  map[string]database.Content
	updateErr error
	getErr    error
	mu        sync.Mutex
}

func NewMockContentRepository() *MockContentRepository {
	return &MockContentRepository{contents: make(map[string]database.Content)}
}

func (m *MockContentRepository) InsertContent(userID, textBody string) (*database.Content, error) {
	return nil, errors.New("not implemented")
}

func (m *MockContentRepository) GetContent(contentID string) (*database.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	content, ok := m.contents[contentID]
	if !ok {
		return nil, nil
	}
	return &content, nil
}

func (m *MockContentRepository) GetContentForUser(contentID, userID string) (*database.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.contents[contentID]
	if !ok || content.UserID != userID {
		return nil, nil
	}
	return &content, nil
}

func (m *MockContentRepository) ListContentsForUser(userID string) ([]database.Content, error) {
	return nil, errors.New("not implemented")
}

func (m *MockContentRepository) UpdateAnalysis(contentID, summary, sentiment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	content, ok := m.contents[contentID]
	if !ok {
		return nil
	}
	content.Summary = summary
	content.Sentiment = sentiment
	content.UpdatedAt = time.Now()
	m.contents[contentID] = content
	return nil
}

func (m *MockContentRepository) DeleteContentForUser(contentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.contents[contentID]
	if !ok || content.UserID != userID {
		return false, nil
	}
	delete(m.contents, contentID)
	return true, nil
}

func (m *MockContentRepository) ListPendingAnalysis(cutoff time.Time, limit int) ([]database.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := []database.Content{}
	for _, content := range m.contents {
		if content.Summary == "" && content.Sentiment == "" && content.CreatedAt.Before(cutoff) {
			pending = append(pending, content)
		}
	}
	return pending, nil
}

func (m *MockContentRepository) GetContentCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contents), nil
}

// RecordingCache tracks invalidated keys
type RecordingCache struct {
	cache.Noop
	deleted []string
	mu      sync.Mutex
}

func (r *RecordingCache) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, keys...)
	return nil
}

func (r *RecordingCache) Deleted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.deleted...)
}

func TestAnalyzeContentTask_EnrichesRecord(t *testing.T) {
	repo := NewMockContentRepository()
	repo.contents["c1"] = database.Content{
		ID: "c1", UserID: "u1", TextBody: "I love this product, it's fantastic!",
		CreatedAt: time.Now(),
	}

	mockAnalyzer := &MockAnalyzer{result: analyzer.Result{
		Summary:   "An enthusiastic review.",
		Sentiment: database.SentimentPositive,
	}}
	recCache := &RecordingCache{}

	task := NewAnalyzeContentTask("c1", "I love this product, it's fantastic!", mockAnalyzer, repo, recCache)
	err := task.Execute(context.Background())
	require.NoError(t, err)

	content, err := repo.GetContent("c1")
	require.NoError(t, err)
	assert.Equal(t, "An enthusiastic review.", content.Summary)
	assert.Equal(t, database.SentimentPositive, content.Sentiment)
	assert.True(t, content.Enriched())

	// Both the list view and the item view are invalidated using the
	// owner read back from the store
	assert.ElementsMatch(t, []string{
		cache.UserContentsKey("u1"),
		cache.ContentKey("u1", "c1"),
	}, recCache.Deleted())
}

func TestAnalyzeContentTask_RecordVanished(t *testing.T) {
	repo := NewMockContentRepository()
	mockAnalyzer := &MockAnalyzer{result: analyzer.Result{
		Summary: "s", Sentiment: database.SentimentNeutral,
	}}
	recCache := &RecordingCache{}

	task := NewAnalyzeContentTask("gone", "some long enough text", mockAnalyzer, repo, recCache)
	err := task.Execute(context.Background())

	// Deleted mid-flight: no error, no write, no invalidation
	require.NoError(t, err)
	assert.Empty(t, recCache.Deleted())
}

func TestAnalyzeContentTask_StoreFailureIsRetryable(t *testing.T) {
	repo := NewMockContentRepository()
	repo.contents["c1"] = database.Content{ID: "c1", UserID: "u1", TextBody: "text", CreatedAt: time.Now()}
	repo.updateErr = errors.New("connection reset")

	mockAnalyzer := &MockAnalyzer{result: analyzer.Result{
		Summary: "s", Sentiment: database.SentimentNeutral,
	}}

	task := NewAnalyzeContentTask("c1", "some long enough text", mockAnalyzer, repo, &RecordingCache{})
	err := task.Execute(context.Background())

	require.Error(t, err)
	assert.True(t, task.CanRetry())
}

func TestAnalyzeContentTask_CancelledContext(t *testing.T) {
	repo := NewMockContentRepository()
	mockAnalyzer := &MockAnalyzer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := NewAnalyzeContentTask("c1", "text", mockAnalyzer, repo, &RecordingCache{})
	err := task.Execute(ctx)

	require.Error(t, err)
	assert.Equal(t, 0, mockAnalyzer.Calls())
}

func TestAnalyzeContentTask_DegradedResultIsStillStored(t *testing.T) {
	repo := NewMockContentRepository()
	repo.contents["c1"] = database.Content{ID: "c1", UserID: "u1", TextBody: "text", CreatedAt: time.Now()}

	mockAnalyzer := &MockAnalyzer{result: analyzer.Result{
		Summary:   analyzer.UnavailableSummary,
		Sentiment: database.SentimentNeutral,
	}}

	task := NewAnalyzeContentTask("c1", "some long enough text", mockAnalyzer, repo, &RecordingCache{})
	err := task.Execute(context.Background())
	require.NoError(t, err)

	content, _ := repo.GetContent("c1")
	assert.Equal(t, analyzer.UnavailableSummary, content.Summary)
	assert.Equal(t, database.SentimentNeutral, content.Sentiment)
}
