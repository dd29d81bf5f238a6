package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vmelnik/textmind/app/auth"
	"github.com/vmelnik/textmind/app/content"
	"github.com/vmelnik/textmind/app/database"
)

func NewHandler(contentService ContentServiceInterface, userService UserServiceInterface,
	userRepo database.UserRepository, contentRepo database.ContentRepository) *Handler {
	return &Handler{
		contentService: contentService,
		userService:    userService,
		userRepo:       userRepo,
		contentRepo:    contentRepo,
	}
}

func (h *Handler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.userService.Signup(req.UserID, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		slog.Error("Signup failed", "user_id", req.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.userService.Login(req.UserID, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect user_id or password"})
			return
		}
		slog.Error("Login failed", "user_id", req.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) CreateContent(c *gin.Context) {
	userID := c.GetString(userIDContextKey)

	var req ContentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.contentService.Create(c.Request.Context(), userID, req.TextBody)
	if err != nil {
		slog.Error("Failed to create content", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, created)
}

func (h *Handler) ListContents(c *gin.Context) {
	userID := c.GetString(userIDContextKey)

	result, err := h.contentService.List(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to list contents", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetContentByID(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	contentID := c.Param("id")

	found, err := h.contentService.GetByID(c.Request.Context(), userID, contentID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
			return
		}
		slog.Error("Failed to get content", "user_id", userID, "content_id", contentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) DeleteContent(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	contentID := c.Param("id")

	err := h.contentService.Delete(c.Request.Context(), userID, contentID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
			return
		}
		slog.Error("Failed to delete content", "user_id", userID, "content_id", contentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"database":  "ok",
	}

	if userCount, err := h.userRepo.GetUserCount(); err == nil {
		health["users"] = userCount
	} else {
		health["database"] = "error"
	}

	if contentCount, err := h.contentRepo.GetContentCount(); err == nil {
		health["contents"] = contentCount
	} else {
		health["database"] = "error"
	}

	c.JSON(http.StatusOK, health)
}
