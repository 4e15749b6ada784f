package router

import (
	"github.com/gin-gonic/gin"
	"github.com/travel/backend/internal/infrastructure/auth"
	"github.com/travel/backend/internal/interfaces/http/handler"
	"github.com/travel/backend/internal/interfaces/http/middleware"
)

// APIConfig holds everything the reservation API is built from
type APIConfig struct {
	Engine          EngineConfig
	JWTService      *auth.JWTService
	Revocations     auth.RevocationList
	Reservations    handler.ReservationUseCases
	Installments    handler.InstallmentUseCases
	MaxReceiptBytes int64
	Health          *handler.HealthHandler
}

// NewAPI builds the engine, installs authentication on /api/v1 and mounts
// the reservation and installment handlers.
func NewAPI(cfg APIConfig) (*gin.Engine, error) {
	engine, err := NewEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	jwtConfig := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtConfig.Revocations = cfg.Revocations
	jwtConfig.Logger = cfg.Engine.Logger

	opts := []RouterOption{
		WithAPIMiddleware(middleware.JWTAuthMiddleware(jwtConfig), middleware.SpanAttributes()),
	}
	if cfg.Health != nil {
		opts = append(opts, WithHealth(cfg.Health.Health))
	}

	NewRouter(engine, opts...).
		Register(handler.NewReservationHandler(cfg.Reservations)).
		Register(handler.NewInstallmentHandler(cfg.Installments, cfg.MaxReceiptBytes)).
		Setup()
	return engine, nil
}
