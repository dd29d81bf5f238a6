package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContentRepo handles database operations for content records
type ContentRepo struct {
	db *DB
}

var _ ContentRepository = (*ContentRepo)(nil)

func NewContentRepository(db *DB) *ContentRepo {
	return &ContentRepo{db: db}
}

func (r *ContentRepo) InsertContent(userID, textBody string) (*Content, error) {
	content := Content{
		ID:       uuid.NewString(),
		UserID:   userID,
		TextBody: textBody,
	}

	err := r.db.QueryRow(`
		INSERT INTO contents (id, user_id, text_body)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, content.ID, content.UserID, content.TextBody).Scan(&content.CreatedAt, &content.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert content: %w", err)
	}

	return &content, nil
}

func (r *ContentRepo) GetContent(contentID string) (*Content, error) {
	return r.scanOne(`
		SELECT id, user_id, text_body, summary, sentiment, created_at, updated_at
		FROM contents
		WHERE id = $1
	`, contentID)
}

func (r *ContentRepo) GetContentForUser(contentID, userID string) (*Content, error) {
	return r.scanOne(`
		SELECT id, user_id, text_body, summary, sentiment, created_at, updated_at
		FROM contents
		WHERE id = $1 AND user_id = $2
	`, contentID, userID)
}

func (r *ContentRepo) ListContentsForUser(userID string) ([]Content, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, text_body, summary, sentiment, created_at, updated_at
		FROM contents
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	return scanContents(rows)
}

func (r *ContentRepo) UpdateAnalysis(contentID, summary, sentiment string) error {
	_, err := r.db.Exec(`
		UPDATE contents
		SET summary = $2, sentiment = $3, updated_at = NOW()
		WHERE id = $1
	`, contentID, summary, sentiment)

	if err != nil {
		return fmt.Errorf("failed to update analysis result: %w", err)
	}

	return nil
}

func (r *ContentRepo) DeleteContentForUser(contentID, userID string) (bool, error) {
	result, err := r.db.Exec(`
		DELETE FROM contents
		WHERE id = $1 AND user_id = $2
	`, contentID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete content: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *ContentRepo) ListPendingAnalysis(cutoff time.Time, limit int) ([]Content, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, text_body, summary, sentiment, created_at, updated_at
		FROM contents
		WHERE summary = '' AND sentiment = '' AND created_at < $1
		ORDER BY created_at
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending contents: %w", err)
	}
	defer rows.Close()

	return scanContents(rows)
}

func (r *ContentRepo) GetContentCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM contents`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contents: %w", err)
	}
	return count, nil
}

func (r *ContentRepo) scanOne(query string, args ...interface{}) (*Content, error) {
	var content Content
	err := r.db.QueryRow(query, args...).Scan(
		&content.ID, &content.UserID, &content.TextBody,
		&content.Summary, &content.Sentiment,
		&content.CreatedAt, &content.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	return &content, nil
}

func scanContents(rows *sql.Rows) ([]Content, error) {
	contents := []Content{}
	for rows.Next() {
		var content Content
		err := rows.Scan(
			&content.ID, &content.UserID, &content.TextBody,
			&content.Summary, &content.Sentiment,
			&content.CreatedAt, &content.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content rows: %w", err)
	}

	return contents, nil
}
