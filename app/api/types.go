package api

import (
	"context"

	"github.com/vmelnik/textmind/app/auth"
	"github.com/vmelnik/textmind/app/content"
	"github.com/vmelnik/textmind/app/database"
)

type ContentServiceInterface interface {
	Create(ctx context.Context, userID, textBody string) (*database.Content, error)
	List(ctx context.Context, userID string) (*content.ListResult, error)
	GetByID(ctx context.Context, userID, contentID string) (*database.Content, error)
	Delete(ctx context.Context, userID, contentID string) error
}

var _ ContentServiceInterface = (*content.Service)(nil)

type UserServiceInterface interface {
	Signup(userID, password string) (string, error)
	Login(userID, password string) (string, error)
}

var _ UserServiceInterface = (*auth.Service)(nil)

type Handler struct {
	contentService ContentServiceInterface
	userService    UserServiceInterface
	userRepo       database.UserRepository
	contentRepo    database.ContentRepository
}

type CredentialsRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ContentCreateRequest struct {
	TextBody string `json:"text_body" binding:"required"`
}
