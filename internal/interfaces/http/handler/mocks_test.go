package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	reservationapp "github.com/travel/backend/internal/application/reservation"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockReservationUseCases implements ReservationUseCases for testing
type MockReservationUseCases struct {
	mock.Mock
}

func (m *MockReservationUseCases) Create(ctx context.Context, p *identity.Principal, payload *reservationapp.ReservationPayload) (int64, error) {
	args := m.Called(ctx, p, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationUseCases) Update(ctx context.Context, p *identity.Principal, id int64, payload *reservationapp.ReservationPayload) error {
	return m.Called(ctx, p, id, payload).Error(0)
}

func (m *MockReservationUseCases) Delete(ctx context.Context, p *identity.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockReservationUseCases) Approve(ctx context.Context, p *identity.Principal, id int64) (*reservationapp.ApproveResult, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservationapp.ApproveResult), args.Error(1)
}

func (m *MockReservationUseCases) Reject(ctx context.Context, p *identity.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockReservationUseCases) Get(ctx context.Context, p *identity.Principal, id int64) (*reservationapp.ReservationResponse, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservationapp.ReservationResponse), args.Error(1)
}

func (m *MockReservationUseCases) List(ctx context.Context, p *identity.Principal, req reservationapp.ListReservationsRequest) (*shared.Paginated[reservationapp.ReservationResponse], error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[reservationapp.ReservationResponse]), args.Error(1)
}

// MockInstallmentUseCases implements InstallmentUseCases for testing
type MockInstallmentUseCases struct {
	mock.Mock
}

func (m *MockInstallmentUseCases) UpdateStatus(ctx context.Context, p *identity.Principal, id int64, req reservationapp.UpdateInstallmentStatusRequest) (*reservationapp.InstallmentResponse, error) {
	args := m.Called(ctx, p, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservationapp.InstallmentResponse), args.Error(1)
}

func (m *MockInstallmentUseCases) UpdateDetails(ctx context.Context, p *identity.Principal, id int64, req reservationapp.UpdateInstallmentDetailsRequest) (*reservationapp.InstallmentResponse, error) {
	args := m.Called(ctx, p, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservationapp.InstallmentResponse), args.Error(1)
}

func (m *MockInstallmentUseCases) UploadReceipt(ctx context.Context, p *identity.Principal, id int64, file reservationapp.ReceiptFile) (*reservationapp.InstallmentResponse, error) {
	args := m.Called(ctx, p, id, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservationapp.InstallmentResponse), args.Error(1)
}

func testPrincipal() *identity.Principal {
	office := "LIM-01"
	p, err := identity.NewPrincipal(7, "asesor", &office, false)
	if err != nil {
		panic(err)
	}
	return p
}

// setupTestRouter simulates the authenticated middleware chain
func setupTestRouter(principal *identity.Principal) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(middleware.PrincipalKey, principal)
		}
		c.Next()
	})
	return router
}
