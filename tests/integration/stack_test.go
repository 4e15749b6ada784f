package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	reservationapp "github.com/travel/backend/internal/application/reservation"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/infrastructure/auth"
	"github.com/travel/backend/internal/infrastructure/config"
	"github.com/travel/backend/internal/infrastructure/persistence"
	"github.com/travel/backend/internal/infrastructure/storage"
	"github.com/travel/backend/internal/interfaces/http/router"
	"github.com/travel/backend/tests/testutil"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// apiStack is the reservation API wired the way cmd/server wires it,
// with in-memory receipt storage and revocations
type apiStack struct {
	t            *testing.T
	DB           *gorm.DB
	Store        *persistence.GormStore
	Reservations *reservationapp.ReservationService
	Installments *reservationapp.InstallmentService
	Receipts     *storage.MemoryBlobStorage
	Revocations  *auth.InMemoryRevocationList
	JWT          *auth.JWTService
	Handler      http.Handler
}

var testToday = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func newAPIStack(t *testing.T, db *gorm.DB, allocator reservation.InvoiceNumberAllocator) *apiStack {
	t.Helper()

	log := zaptest.NewLogger(t)
	store := persistence.NewGormStore(db)
	if allocator == nil {
		allocator = persistence.NewGormInvoiceNumberAllocator(db, "")
	}
	access := reservationapp.NewAccessControlResolver(store.Reservations(), store.Installments())
	receipts := storage.NewMemoryBlobStorage("")

	reservations := reservationapp.NewReservationService(store, access, allocator, log)
	installments := reservationapp.NewInstallmentService(store, access, receipts, log)
	installments.SetClock(shared.FixedClock{At: testToday})

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "integration-secret-key-32-chars!",
		Issuer:                "travel-test",
		AccessTokenExpiration: time.Hour,
	})
	revocations := auth.NewInMemoryRevocationList()

	engine, err := router.NewAPI(router.APIConfig{
		Engine: router.EngineConfig{
			Logger:      log,
			ServiceName: "travel-test",
			MaxBodySize: 4 << 20,
		},
		JWTService:      jwtService,
		Revocations:     revocations,
		Reservations:    reservations,
		Installments:    installments,
		MaxReceiptBytes: reservationapp.DefaultMaxReceiptBytes,
	})
	require.NoError(t, err)

	return &apiStack{
		t:            t,
		DB:           db,
		Store:        store,
		Reservations: reservations,
		Installments: installments,
		Receipts:     receipts,
		Revocations:  revocations,
		JWT:          jwtService,
		Handler:      engine,
	}
}

func (s *apiStack) client(p *identity.Principal) *testutil.APIClient {
	return testutil.NewAPIClient(s.t, s.Handler, s.JWT, p)
}
