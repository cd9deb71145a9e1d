package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubertify-backend/internal/config"
	"tubertify-backend/internal/database"
	"tubertify-backend/internal/generation"
	"tubertify-backend/internal/handlers"
	"tubertify-backend/internal/middleware"
	"tubertify-backend/internal/repository"
	"tubertify-backend/internal/router"
	"tubertify-backend/internal/services"
	"tubertify-backend/internal/websocket"
	"tubertify-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Tubertify Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	courseRepo := repository.NewCourseRepo(pool)
	moduleRepo := repository.NewModuleRepo(pool)
	artifactRepo := repository.NewArtifactRepo(pool)
	usageRepo := repository.NewUsageRepo(pool)
	flagRepo := repository.NewFlagRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiSummaryKey,
		cfg.GeminiStudyKey,
		cfg.GeminiChatKey,
		cfg.GeminiConcurrentReqs,
		cfg.GeminiTimeoutSecs,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini clients initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	youtubeService := services.NewYouTubeService(redisClients.Queue)
	backfillQueue := worker.NewQueue(redisClients.Queue)
	eventPublisher := services.NewEventPublisher(redisClients.PubSub)

	courseService := services.NewCourseService(
		courseRepo, moduleRepo, youtubeService, backfillQueue, cfg.CourseWindowHours,
	)
	orchestrator := generation.NewOrchestrator(
		artifactRepo, usageRepo, flagRepo, geminiService, cfg.ChatDailyLimit,
	)

	// ──── Initialize Handlers ────
	aiHandler := handlers.NewAIHandler(orchestrator, moduleRepo, youtubeService, eventPublisher)
	courseHandler := handlers.NewCourseHandler(courseService, eventPublisher)

	// ──── Step 6: Start Duration Backfill Workers ────
	backfillPool := worker.NewPool(redisClients.Queue, youtubeService, moduleRepo, cfg.DurationWorkers)
	backfillPool.Start()

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(jwtAuth, aiHandler, courseHandler, wsHub, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		backfillPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Tubertify Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
