package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var ErrDuplicateUser = errors.New("user already exists")

// UserRepo handles database operations for users
type UserRepo struct {
	db *DB
}

var _ UserRepository = (*UserRepo)(nil)

func NewUserRepository(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(user User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (user_id, hashed_password)
		VALUES ($1, $2)
	`, user.ID, user.HashedPassword)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepo) GetUser(userID string) (*User, error) {
	var user User
	err := r.db.QueryRow(`
		SELECT user_id, hashed_password, created_at
		FROM users
		WHERE user_id = $1
	`, userID).Scan(&user.ID, &user.HashedPassword, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *UserRepo) GetUserCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
