package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vmelnik/textmind/app/analyzer"
	"github.com/vmelnik/textmind/app/api"
	"github.com/vmelnik/textmind/app/auth"
	"github.com/vmelnik/textmind/app/cache"
	"github.com/vmelnik/textmind/app/cfg"
	"github.com/vmelnik/textmind/app/content"
	"github.com/vmelnik/textmind/app/database"
	"github.com/vmelnik/textmind/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	if appConfig.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting TextMind server (version %s)...", appConfig.Version)

	// Database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(
		appConfig.DBHost, appConfig.DBPort, appConfig.DBUser,
		appConfig.DBPassword, appConfig.DBName)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Connected to database successfully")

	// Run migrations
	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database migrations applied (version %d, dirty: %v)", version, dirty)

	// Response cache: disabled or unreachable Redis degrades to no-op
	var respCache cache.Cache = cache.NewNoop()
	if appConfig.CacheEnabled && appConfig.RedisAddr != "" {
		redisCache, err := cache.NewCache(appConfig.RedisAddr, appConfig.RedisPassword)
		if err != nil {
			log.Printf("Warning: Redis unavailable, caching disabled: %v", err)
		} else {
			respCache = redisCache
			log.Printf("Response cache enabled (Redis at %s, TTL %ds)", appConfig.RedisAddr, appConfig.CacheTTL)
		}
	} else {
		log.Println("Response cache disabled")
	}
	defer respCache.Close()

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	contentRepo := database.NewContentRepository(db)

	// Initialize core components
	textAnalyzer := analyzer.NewAnalyzer()
	jwtManager := auth.NewJWTManager(appConfig.SecretKey,
		time.Duration(appConfig.AccessTokenExpires)*time.Minute)
	userService := auth.NewService(userRepo, jwtManager)

	// Initialize and start background scheduler
	log.Printf("Starting background scheduler with %d workers...", appConfig.WorkerCount)
	scheduler := tasks.NewScheduler(contentRepo, textAnalyzer, respCache)
	scheduler.Start()
	defer scheduler.Stop()

	contentService := content.NewService(contentRepo, respCache, scheduler, textAnalyzer)

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(contentService, userService, userRepo, contentRepo)
	server := api.NewServer(apiHandler, jwtManager)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Port)
		log.Printf("API endpoints available:")
		log.Printf("  Signup:        http://localhost:%s/signup (POST)", appConfig.Port)
		log.Printf("  Login:         http://localhost:%s/login (POST)", appConfig.Port)
		log.Printf("  Contents:      http://localhost:%s/contents (requires bearer token)", appConfig.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appConfig.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("TextMind server started successfully!")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("TextMind server shutdown complete")
}
