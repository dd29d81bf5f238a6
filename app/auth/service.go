// Package auth implements credential handling for the API: password
// hashing, JWT issuance and validation, and the signup/login service.
package auth

import (
	"errors"
	"fmt"

	"github.com/vmelnik/textmind/app/database"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("incorrect user_id or password")
)

// Service handles user registration and login
type Service struct {
	userRepo database.UserRepository
	jwt      *JWTManager
}

func NewService(userRepo database.UserRepository, jwt *JWTManager) *Service {
	return &Service{
		userRepo: userRepo,
		jwt:      jwt,
	}
}

// Signup registers a new user and returns an access token
func (s *Service) Signup(userID, password string) (string, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	err = s.userRepo.CreateUser(database.User{ID: userID, HashedPassword: hashed})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	return s.jwt.GenerateToken(userID)
}

// Login verifies credentials and returns an access token. Unknown user
// and wrong password are reported identically.
func (s *Service) Login(userID, password string) (string, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil || !VerifyPassword(password, user.HashedPassword) {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(userID)
}
