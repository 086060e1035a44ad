package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/escolacentral/escola-backend/internal/config"
	"github.com/escolacentral/escola-backend/internal/database"
	"github.com/escolacentral/escola-backend/internal/handler"
	"github.com/escolacentral/escola-backend/internal/logger"
	"github.com/escolacentral/escola-backend/internal/mailer"
	"github.com/escolacentral/escola-backend/internal/repository"
	"github.com/escolacentral/escola-backend/internal/router"
	"github.com/escolacentral/escola-backend/internal/service"
	"github.com/escolacentral/escola-backend/internal/validator"
	"github.com/escolacentral/escola-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Escola Central Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	tokenRepo := repository.NewTokenRepository(pool)
	eventRepo := repository.NewSecurityEventRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	schoolRepo := repository.NewSchoolRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	securityService := service.NewSecurityService(cfg, eventRepo, rdb, log)
	dispatcher := mailer.NewQueueDispatcher(rdb, log)
	provisioningService := service.NewProvisioningService(cfg, tokenRepo, dispatcher, securityService, log)
	authService := service.NewAuthService(cfg, rdb, adminRepo, securityService)
	adminUserService := service.NewAdminUserService(adminRepo)
	schoolService := service.NewSchoolService(schoolRepo, log)
	classService := service.NewClassService(classRepo)
	subjectService := service.NewSubjectService(subjectRepo)
	studentService := service.NewStudentService(studentRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		FirstAccess: handler.NewFirstAccessHandler(provisioningService),
		Security:    handler.NewSecurityHandler(securityService, log),
		AdminUser:   handler.NewAdminUserHandler(adminUserService),
		School:      handler.NewSchoolHandler(schoolService),
		Class:       handler.NewClassHandler(classService),
		Subject:     handler.NewSubjectHandler(subjectService),
		Student:     handler.NewStudentHandler(studentService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	dispatchWorker := worker.NewDispatchWorker(rdb, mailer.NewSMTPSender(cfg), log)
	go dispatchWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, rdb, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the mail queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
