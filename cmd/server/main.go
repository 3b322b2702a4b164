package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Retail POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("driver", cfg.Database.Driver))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithIgnoreRecordNotFoundError(true))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	creditRepo := persistence.NewGormCreditRepository(db.DB)
	depositRepo := persistence.NewGormDepositRepository(db.DB)
	gateLogRepo := persistence.NewGormGateLogRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Event bus with post-commit side-effect handlers
	bus := event.NewInMemoryEventBus(log)
	lowStock := salesapp.NewLowStockHandler(log)
	bus.Subscribe(lowStock, lowStock.EventTypes()...)
	audit := salesapp.NewAuditTrailHandler(log)
	bus.Subscribe(audit, audit.EventTypes()...)
	depositOnPayment := salesapp.NewDepositOnPaymentHandler(depositRepo, log)
	bus.Subscribe(depositOnPayment, depositOnPayment.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Gate cache: in-process by default, Redis-backed when instances share
	// the gate state
	var gateCache salesapp.GateCache
	if cfg.Gate.UseRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisFlag := cache.NewRedisGateFlag(client, log)
		if err := redisFlag.Start(ctx); err != nil {
			log.Fatal("Failed to start Redis gate flag", zap.Error(err))
		}
		defer redisFlag.Stop()
		gateCache = redisFlag
	} else {
		gateCache = cache.NewGateFlag()
	}

	// Application services
	gateService := salesapp.NewGateService(gateLogRepo, gateCache, log)
	gateService.SetEventPublisher(bus)
	if err := gateService.Init(ctx); err != nil {
		log.Fatal("Failed to seed gate state", zap.Error(err))
	}

	saleService := salesapp.NewSaleService(scope, productRepo, saleRepo, gateService, log)
	saleService.SetEventPublisher(bus)
	saleService.SetDefaultVATPercent(decimal.NewFromFloat(cfg.Sales.DefaultVATPercent))
	saleService.SetLockWaitTimeout(cfg.Sales.LockWaitTimeout)

	creditService := salesapp.NewCreditService(scope, creditRepo, log)
	creditService.SetEventPublisher(bus)
	depositService := salesapp.NewDepositService(depositRepo, log)

	productService := catalogapp.NewProductService(productRepo, log)
	productService.SetEventPublisher(bus)

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		middleware.Identity(),
		middleware.CORS(),
		middleware.Secure(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	router.NewRouter(engine).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewSaleHandler(saleService)).
		Register(handler.NewCreditHandler(creditService, depositService)).
		Register(handler.NewGateHandler(gateService)).
		Register(handler.NewSystemHandler(db)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus stop failed", zap.Error(err))
	}

	log.Info("Stopped")
}
