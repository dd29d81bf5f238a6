package database

import (
	"time"
)

// Sentiment classification assigned by the analyzer. Empty means the
// content has not been analyzed yet.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

type User struct {
	ID             string    `json:"user_id"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type Content struct {
	ID        string    `json:"id"`         // Database UUID, assigned at insert
	UserID    string    `json:"user_id"`    // Owner, establishes access scope
	TextBody  string    `json:"text_body"`  // Original submitted text, immutable
	Summary   string    `json:"summary"`    // Empty until analysis completes
	Sentiment string    `json:"sentiment"`  // Empty until analysis completes
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"` // Tracks last enrichment write
}

// Enriched reports whether the analyzer has written its result back.
func (c *Content) Enriched() bool {
	return c.Summary != "" && c.Sentiment != ""
}
