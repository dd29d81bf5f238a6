package database

import (
	"time"
)

type UserRepository interface {
	CreateUser(user User) error
	GetUser(userID string) (*User, error)
	GetUserCount() (int, error)
}

type ContentRepository interface {
	// InsertContent persists a new unanalyzed content record and
	// returns it with the assigned id and timestamps.
	InsertContent(userID, textBody string) (*Content, error)

	// GetContent looks a record up by id alone. Callers that enforce
	// ownership must use GetContentForUser instead.
	GetContent(contentID string) (*Content, error)

	// GetContentForUser filters by both id and owner. A missing id and
	// a foreign owner are indistinguishable: both return nil.
	GetContentForUser(contentID, userID string) (*Content, error)

	// ListContentsForUser returns the owner's records in insertion order.
	ListContentsForUser(userID string) ([]Content, error)

	// UpdateAnalysis writes summary and sentiment together.
	UpdateAnalysis(contentID, summary, sentiment string) error

	// DeleteContentForUser removes an owner-scoped record and reports
	// whether a row was actually deleted.
	DeleteContentForUser(contentID, userID string) (bool, error)

	// ListPendingAnalysis returns unanalyzed records created before
	// the cutoff, oldest first.
	ListPendingAnalysis(cutoff time.Time, limit int) ([]Content, error)

	GetContentCount() (int, error)
}
