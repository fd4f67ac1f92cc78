package main

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/internal/infra/postgres"
	infraRedis "github.com/cashfolio/cashfolio/internal/infra/redis"
	"github.com/cashfolio/cashfolio/internal/module/adjustment"
	"github.com/cashfolio/cashfolio/internal/module/cash"
	"github.com/cashfolio/cashfolio/internal/module/manual"
	"github.com/cashfolio/cashfolio/internal/module/settlement"
	"github.com/cashfolio/cashfolio/internal/module/statement"
	"github.com/cashfolio/cashfolio/internal/module/trade"
	"github.com/cashfolio/cashfolio/internal/module/transfer"
	"github.com/cashfolio/cashfolio/internal/platform/portfolio"
	"github.com/cashfolio/cashfolio/internal/platform/schedule"
	"github.com/cashfolio/cashfolio/internal/platform/source"
	"github.com/cashfolio/cashfolio/internal/platform/user"
	"github.com/cashfolio/cashfolio/internal/transport/httpapi"
	"github.com/cashfolio/cashfolio/internal/transport/httpapi/handler"
	"github.com/cashfolio/cashfolio/internal/transport/httpapi/middleware"
	"github.com/cashfolio/cashfolio/pkg/config"
	"github.com/cashfolio/cashfolio/pkg/logger"

	"github.com/redis/go-redis/v9"
)

//go:embed openapi.yaml
var openAPISpec []byte

// redisPinger adapts the go-redis client to the health check interface
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Cashfolio API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Initialize database connection pool
	dbCfg := postgres.Config{
		URL: cfg.DatabaseURL,
	}
	db, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for summary caching
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db.Pool)
	portfolioRepo := postgres.NewPortfolioRepository(db.Pool)
	sourceRepo := postgres.NewSourceRepository(db.Pool)
	flowRepo := postgres.NewCashFlowRepository(db.Pool)

	// Initialize summary cache
	summaryCache := infraRedis.NewSummaryCacheWithTTL(redisClient, cfg.SummaryCacheTTL, log)

	// Initialize handler registry for cash-flow types
	registry := cashflow.NewRegistry()

	// Initialize services
	userSvc := user.NewService(userRepo, log)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
	portfolioSvc := portfolio.NewService(portfolioRepo)
	sourceSvc := source.NewService(sourceRepo)
	flowSvc := cashflow.NewService(flowRepo, registry, summaryCache)

	// Register cash-flow handlers with the registry
	flowHandlers := []cashflow.Handler{
		cash.NewDepositHandler(sourceSvc, log),
		cash.NewWithdrawalHandler(sourceSvc, log),
		manual.NewDividendHandler(log),
		manual.NewInterestHandler(log),
		manual.NewFeeHandler(log),
		manual.NewTaxHandler(log),
		trade.NewBuyTradeHandler(log),
		trade.NewSellTradeHandler(log),
		trade.NewTradeSettlementHandler(log),
		settlement.NewCreationHandler(log),
		settlement.NewSettlementHandler(log),
		adjustment.NewHandler(log),
	}
	for _, h := range flowHandlers {
		if err := registry.Register(h); err != nil {
			log.Error("Failed to register cash flow handler", "error", err)
			os.Exit(1)
		}
		log.Info("Registered cash flow handler", "type", string(h.Type()))
	}

	// Initialize statement and transfer services on top of the flow service
	statementSvc := statement.NewService(flowSvc, log)
	transferSvc := transfer.NewService(flowSvc, log)
	log.Info("Statement and transfer services initialized")

	// Initialize the settlement sweeper and its schedule
	sweeper := settlement.NewSweeper(flowSvc, flowRepo, log)
	scheduler := schedule.New(log)
	if err := scheduler.AddJob(cfg.SettlementSchedule, sweeper); err != nil {
		log.Error("Failed to schedule settlement sweep", "error", err)
		os.Exit(1)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userSvc, jwtSvc)
	portfolioHandler := handler.NewPortfolioHandler(portfolioSvc, sourceSvc)
	cashFlowHandler := handler.NewCashFlowHandler(flowSvc, statementSvc, transferSvc, portfolioSvc)
	healthHandler := handler.NewHealthHandler(db, redisPinger{client: redisClient})
	docsHandler := handler.NewDocsHandler(openAPISpec)

	// Create JWT middleware
	jwtMiddleware := middleware.JWTMiddleware(jwtSvc)

	// Create HTTP router
	routerCfg := httpapi.Config{
		Logger:           log,
		AllowedOrigins:   cfg.AllowedOrigins,
		AuthHandler:      authHandler,
		PortfolioHandler: portfolioHandler,
		CashFlowHandler:  cashFlowHandler,
		HealthHandler:    healthHandler,
		DocsHandler:      docsHandler,
		JWTMiddleware:    jwtMiddleware,
	}
	r := httpapi.NewRouter(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the settlement scheduler
	scheduler.Start()
	log.Info("Settlement sweep scheduled", "schedule", cfg.SettlementSchedule)

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Stop the scheduler and wait for running jobs
	scheduler.Stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
