package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/ledgerline/internal/infra/postgres"
	infraredis "github.com/ledgerline/ledgerline/internal/infra/redis"
	"github.com/ledgerline/ledgerline/internal/platform/account"
	"github.com/ledgerline/ledgerline/internal/platform/recurring"
	"github.com/ledgerline/ledgerline/internal/platform/transaction"
	"github.com/ledgerline/ledgerline/internal/platform/user"
	"github.com/ledgerline/ledgerline/internal/transport/httpapi"
	"github.com/ledgerline/ledgerline/internal/transport/httpapi/handler"
	"github.com/ledgerline/ledgerline/internal/transport/httpapi/middleware"
	"github.com/ledgerline/ledgerline/pkg/config"
	"github.com/ledgerline/ledgerline/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Ledgerline API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	userRepo := postgres.NewUserRepository(db.Pool)
	accountRepo := postgres.NewAccountRepository(db.Pool)
	transactionRepo := postgres.NewTransactionRepository(db.Pool)
	recurringRepo := postgres.NewRecurringRepository(db.Pool)

	userSvc := user.NewService(userRepo, log)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
	accountSvc := account.NewService(accountRepo)
	transactionSvc := transaction.NewService(transactionRepo, accountRepo)

	detectionCache := infraredis.NewDetectionCache(redisClient, cfg.DetectionCacheTTL, log)
	recurringSvc := recurring.NewService(
		transactionRepo,
		recurringRepo,
		detectionCache,
		&recurring.Config{
			MaxHistory:   cfg.DetectionMaxHistory,
			CacheResults: cfg.DetectionCacheOn,
		},
		log,
	)
	log.Info("Recurring detection service initialized",
		"max_history", cfg.DetectionMaxHistory,
		"cache_ttl", cfg.DetectionCacheTTL,
	)

	authHandler := handler.NewAuthHandler(userSvc, jwtSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc)
	recurringHandler := handler.NewRecurringHandler(recurringSvc)
	loanHandler := handler.NewLoanHandler()
	healthHandler := handler.NewHealthHandler(db)

	allowedOrigins := []string{"http://localhost:5173"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = []string{origins}
	}

	r := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     allowedOrigins,
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		RecurringHandler:   recurringHandler,
		LoanHandler:        loanHandler,
		HealthHandler:      healthHandler,
		JWTMiddleware:      middleware.JWTMiddleware(jwtSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
