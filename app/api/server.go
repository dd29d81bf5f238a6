package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vmelnik/textmind/app/auth"
	"github.com/vmelnik/textmind/app/cfg"
)

const userIDContextKey = "userID"

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, jwtManager *auth.JWTManager) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, jwtManager)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, jwtManager *auth.JWTManager) {
	// Public authentication endpoints
	r.POST("/signup", handler.Signup)
	r.POST("/login", handler.Login)

	// Health endpoint
	r.GET("/health", handler.GetHealth)

	// Content endpoints require an authenticated user
	contents := r.Group("/contents")
	contents.Use(authMiddleware(jwtManager))
	{
		contents.POST("", handler.CreateContent)
		contents.GET("", handler.ListContents)
		contents.GET("/:id", handler.GetContentByID)
		contents.DELETE("/:id", handler.DeleteContent)
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "TextMind",
			"version":     cfg.GetVersion(),
			"description": "An intelligent API that processes content using AI",
			"endpoints": map[string]string{
				"signup":   "/signup (POST)",
				"login":    "/login (POST)",
				"contents": "/contents (requires Authorization: Bearer <token>)",
				"health":   "/health",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware resolves the bearer token into the requesting user id
// before any handler logic runs
func authMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := jwtManager.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}
