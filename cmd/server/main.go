package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	reservationapp "github.com/travel/backend/internal/application/reservation"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/infrastructure/auth"
	"github.com/travel/backend/internal/infrastructure/cache"
	"github.com/travel/backend/internal/infrastructure/config"
	"github.com/travel/backend/internal/infrastructure/logger"
	"github.com/travel/backend/internal/infrastructure/persistence"
	"github.com/travel/backend/internal/infrastructure/storage"
	"github.com/travel/backend/internal/infrastructure/telemetry"
	"github.com/travel/backend/internal/interfaces/http/handler"
	"github.com/travel/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const (
	version = "1.0.0"

	// multipartOverhead is the headroom above the receipt limit for form boundaries and headers
	multipartOverhead = 1 << 20
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg.App, cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()
	telemetryCfg := telemetry.FromAppConfig(cfg.Telemetry)

	providers, err := telemetry.Start(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = providers.Logs.Bridge(log)

	log.Info("Starting travel backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")
	db.LogStats(log)

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	store := persistence.NewGormStore(db.DB)

	var allocator reservation.InvoiceNumberAllocator
	switch cfg.Invoice.Allocator {
	case config.InvoiceAllocatorRedis:
		allocator = cache.NewRedisInvoiceNumberAllocator(redisClient, cache.DefaultInvoiceKey,
			store.Reservations().MaxInvoiceNumber, log)
	default:
		allocator = persistence.NewGormInvoiceNumberAllocator(db.DB, cfg.Invoice.Sequence)
	}
	log.Info("Invoice allocator selected", zap.String("allocator", cfg.Invoice.Allocator))

	receipts, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize receipt storage", zap.Error(err))
	}

	metrics, err := telemetry.NewReservationMetrics(providers.Meter.Meter(telemetry.ReservationMetricsMeterName))
	if err != nil {
		log.Fatal("Failed to register reservation metrics", zap.Error(err))
	}

	access := reservationapp.NewAccessControlResolver(store.Reservations(), store.Installments())
	reservations := reservationapp.NewReservationService(store, access, allocator, log)
	reservations.SetMetrics(metrics)
	installments := reservationapp.NewInstallmentService(store, access, receipts, log)
	installments.SetMetrics(metrics)
	installments.SetMaxReceiptBytes(cfg.Storage.MaxReceiptBytes)

	// A nil RevocationList disables the check; never hand the middleware a typed nil.
	var revocations auth.RevocationList
	if cfg.JWT.RevocationEnabled {
		revocations = auth.NewRedisRevocationList(redisClient)
	}

	health := handler.NewHealthHandler(version).
		WithCheck("database", db.Ping)
	if redisClient != nil {
		health.WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	maxBodySize := cfg.HTTP.MaxBodySize
	if minimum := cfg.Storage.MaxReceiptBytes + multipartOverhead; maxBodySize < minimum {
		maxBodySize = minimum
	}

	engine, err := router.NewAPI(router.APIConfig{
		Engine: router.EngineConfig{
			Logger:         log,
			ServiceName:    telemetryCfg.ServiceName,
			TracingEnabled: providers.Tracer.IsEnabled(),
			MaxBodySize:    maxBodySize,
			TrustedProxies: cfg.HTTP.TrustedProxies,
		},
		JWTService:      auth.NewJWTService(cfg.JWT),
		Revocations:     revocations,
		Reservations:    reservations,
		Installments:    installments,
		MaxReceiptBytes: cfg.Storage.MaxReceiptBytes,
		Health:          health,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP API", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
