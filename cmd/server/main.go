package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	expensesapp "github.com/hotelier/backend/internal/application/expenses"
	paymentsapp "github.com/hotelier/backend/internal/application/payments"
	treasuryapp "github.com/hotelier/backend/internal/application/treasury"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/hotelier/backend/internal/infrastructure/cache"
	"github.com/hotelier/backend/internal/infrastructure/config"
	"github.com/hotelier/backend/internal/infrastructure/event"
	"github.com/hotelier/backend/internal/infrastructure/logger"
	"github.com/hotelier/backend/internal/infrastructure/persistence"
	"github.com/hotelier/backend/internal/interfaces/http/handler"
	"github.com/hotelier/backend/internal/interfaces/http/middleware"
	"github.com/hotelier/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Hotel Treasury API
//	@version		1.0
//	@description	Back-office cash register reconciliation and transaction ledger API

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Hotel Treasury Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	registerRepo := persistence.NewGormCashRegisterRepository(db.DB)
	incomingPaymentRepo := persistence.NewGormIncomingPaymentRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	expensePaymentRepo := persistence.NewGormExpensePaymentRepository(db.DB)

	// The three transaction sources feeding merged ledgers and balances
	sources := []treasury.TransactionSource{
		incomingPaymentRepo,
		expensePaymentRepo,
		expenseRepo,
	}

	// Initialize application services
	balanceService := treasuryapp.NewBalanceService(registerRepo, sources, log)
	ledgerService := treasuryapp.NewLedgerService(registerRepo, sources)
	registerService := treasuryapp.NewCashRegisterService(registerRepo, balanceService, log)
	paymentService := paymentsapp.NewPaymentService(incomingPaymentRepo, registerRepo, log)
	expenseService := expensesapp.NewExpenseService(expenseRepo, registerRepo, log)
	expensePaymentService := expensesapp.NewExpensePaymentService(expensePaymentRepo, expenseRepo, registerRepo, log)

	// Initialize event bus and the balance consistency trigger
	eventBus := event.NewInMemoryEventBus(log)

	recalcHandler := treasuryapp.NewBalanceRecalculationHandler(
		balanceService, cfg.Balance.RecomputeTimeout, log)

	if cfg.Event.IdempotencyEnabled {
		storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, log, cfg.Event.AllowInMemoryFallback)
		store, err := storeFactory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		idempotentRecalc := event.NewIdempotentHandler(recalcHandler, store, shared.IdempotencyConfig{
			TTL:     cfg.Event.IdempotencyTTL,
			Enabled: true,
		}, log)
		eventBus.Subscribe(idempotentRecalc)
	} else {
		eventBus.Subscribe(recalcHandler)
	}

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Every mutation publishes through the bus so affected balances recompute
	registerService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	expenseService.SetEventPublisher(eventBus)
	expensePaymentService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	cashRegisterHandler := handler.NewCashRegisterHandler(registerService, ledgerService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	expenseHandler := handler.NewExpenseHandler(expenseService, expensePaymentService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(cashRegisterHandler).
		Register(paymentHandler).
		Register(expenseHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight balance recomputations finish before exiting
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus did not drain in time", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
