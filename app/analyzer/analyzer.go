// Package analyzer derives a short summary and a sentiment label for
// submitted text via a hosted chat-completions model. Run never
// returns an error: any failure degrades to a fixed fallback result so
// callers need no error handling of their own.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vmelnik/textmind/app/cfg"
	"github.com/vmelnik/textmind/app/database"
)

const (
	chatModel = "meta-llama/Meta-Llama-3-8B-Instruct"

	minTextLength = 10
	maxTextLength = 4000

	// Fixed degraded results, part of the analyzer contract
	ShortTextSummary   = "Text too short to analyze."
	UnavailableSummary = "Analysis unavailable at this time."
)

const systemPrompt = "You summarize user text and return overall sentiment." +
	" Respond strictly with JSON matching the schema: " +
	`{"summary": "<short summary>", "sentiment": "Positive|Negative|Neutral"}.` +
	" Keep the summary under 3 sentences."

type Result struct {
	Summary   string
	Sentiment string
}

type Analyzer struct {
	endpoint   string
	apiKey     string
	model      string
	userAgent  string
	httpClient *http.Client
}

func NewAnalyzer() *Analyzer {
	cfg := cfg.Get()

	return &Analyzer{
		endpoint:   cfg.AnalyzerURL,
		apiKey:     cfg.HuggingFaceAPIKey,
		model:      chatModel,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type modelOutput struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

// Run analyzes the given text. Inputs shorter than 10 characters after
// trimming are answered locally without a network call; longer inputs
// are truncated to 4000 characters before sending.
func (a *Analyzer) Run(ctx context.Context, text string) Result {
	cleaned := strings.TrimSpace(text)
	if utf8.RuneCountInString(cleaned) < minTextLength {
		return Result{Summary: ShortTextSummary, Sentiment: database.SentimentNeutral}
	}

	content, err := a.requestCompletion(ctx, truncateText(cleaned, maxTextLength))
	if err != nil {
		slog.Error("Text analysis request failed", "error", err)
		return Result{Summary: UnavailableSummary, Sentiment: database.SentimentNeutral}
	}

	return parseModelOutput(content)
}

func (a *Analyzer) requestCompletion(ctx context.Context, text string) (string, error) {
	payload := chatRequest{
		Model:       a.model,
		Temperature: 0.2,
		MaxTokens:   400,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Analyze the following text and respond with JSON as specified.\nTEXT:\n" + text},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call analysis endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("analysis endpoint returned %d: %s", resp.StatusCode, string(data))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contains no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// parseModelOutput extracts the structured result from the model
// reply. A reply that is not valid JSON is used verbatim as the
// summary with neutral sentiment.
func parseModelOutput(content string) Result {
	var out modelOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		slog.Warn("Model response was not valid JSON, using raw text as summary")
		return Result{Summary: strings.TrimSpace(content), Sentiment: database.SentimentNeutral}
	}

	summary := out.Summary
	if summary == "" {
		summary = strings.TrimSpace(content)
	}

	return Result{Summary: summary, Sentiment: mapSentiment(out.Sentiment)}
}

func mapSentiment(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return database.SentimentPositive
	case "negative":
		return database.SentimentNegative
	default:
		return database.SentimentNeutral
	}
}

// truncateText limits text to the given number of characters, never
// splitting a multibyte rune.
func truncateText(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
