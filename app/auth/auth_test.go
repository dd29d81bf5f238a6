package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmelnik/textmind/app/database"
)

// MockUserRepository implements a simple mock for testing
type MockUserRepository struct {
	users map[string]database.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]database.User)}
}

func (m *MockUserRepository) CreateUser(user database.User) error {
	if m.err != nil {
		return m.err
	}
	if _, exists := m.users[user.ID]; exists {
		return database.ErrDuplicateUser
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetUser(userID string) (*database.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, exists := m.users[userID]
	if !exists {
		return nil, nil
	}
	return &user, nil
}

func (m *MockUserRepository) GetUserCount() (int, error) {
	return len(m.users), nil
}

func TestHashAndVerifyPassword(t *testing.T) {
	password := "UltraSecret!42"

	hashed, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hashed)

	assert.True(t, VerifyPassword(password, hashed))
	assert.False(t, VerifyPassword("wrong-password", hashed))
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", 5*time.Minute)

	token, err := m.GenerateToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -1*time.Minute)

	token, err := m.GenerateToken("user-123")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", 5*time.Minute)
	verifier := NewJWTManager("secret-b", 5*time.Minute)

	token, err := issuer.GenerateToken("user-123")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_GarbageToken(t *testing.T) {
	m := NewJWTManager("test-secret", 5*time.Minute)

	_, err := m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_SignupAndLogin(t *testing.T) {
	repo := NewMockUserRepository()
	svc := NewService(repo, NewJWTManager("test-secret", 5*time.Minute))

	token, err := svc.Signup("u1", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Stored password must be hashed
	stored := repo.users["u1"]
	assert.NotEqual(t, "password123", stored.HashedPassword)

	token, err = svc.Login("u1", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestService_SignupDuplicate(t *testing.T) {
	repo := NewMockUserRepository()
	svc := NewService(repo, NewJWTManager("test-secret", 5*time.Minute))

	_, err := svc.Signup("u1", "password123")
	require.NoError(t, err)

	_, err = svc.Signup("u1", "other-password")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_LoginFailures(t *testing.T) {
	repo := NewMockUserRepository()
	svc := NewService(repo, NewJWTManager("test-secret", 5*time.Minute))

	_, err := svc.Signup("u1", "password123")
	require.NoError(t, err)

	// Unknown user and wrong password yield the same error
	_, err = svc.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("u1", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_LoginRepoError(t *testing.T) {
	repo := NewMockUserRepository()
	repo.err = errors.New("connection refused")
	svc := NewService(repo, NewJWTManager("test-secret", 5*time.Minute))

	_, err := svc.Login("u1", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
