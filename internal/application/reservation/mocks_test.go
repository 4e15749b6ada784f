package reservation

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
)

// ============================================================================
// Mocks
// ============================================================================

// MockStore runs transactions inline against the same mock repositories
type MockStore struct {
	mock.Mock
	clients      *MockClientRepository
	reservations *MockReservationRepository
	installments *MockInstallmentRepository
}

func newMockStore() *MockStore {
	return &MockStore{
		clients:      new(MockClientRepository),
		reservations: new(MockReservationRepository),
		installments: new(MockInstallmentRepository),
	}
}

func (m *MockStore) Transaction(ctx context.Context, fn func(tx reservation.Store) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *MockStore) Clients() reservation.ClientRepository           { return m.clients }
func (m *MockStore) Reservations() reservation.ReservationRepository { return m.reservations }
func (m *MockStore) Installments() reservation.InstallmentRepository { return m.installments }

var _ reservation.Store = (*MockStore)(nil)

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByEmail(ctx context.Context, email string) (*reservation.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Client), args.Error(1)
}

func (m *MockClientRepository) FindOrCreate(ctx context.Context, client *reservation.Client) (*reservation.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Client), args.Error(1)
}

var _ reservation.ClientRepository = (*MockClientRepository)(nil)

// MockReservationRepository is a mock implementation of ReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindOwnership(ctx context.Context, id int64) (*reservation.ReservationOwnership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.ReservationOwnership), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, scope reservation.ListScope, filter shared.Filter) ([]reservation.Reservation, int64, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]reservation.Reservation), args.Get(1).(int64), args.Error(2)
}

func (m *MockReservationRepository) LockHeader(ctx context.Context, id int64) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CreateHeader(ctx context.Context, r *reservation.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateHeader(ctx context.Context, r *reservation.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) InsertChildren(ctx context.Context, r *reservation.Reservation, set reservation.ChildSet) error {
	args := m.Called(ctx, r, set)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteChildren(ctx context.Context, reservationID int64, set reservation.ChildSet) error {
	args := m.Called(ctx, reservationID, set)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteHeader(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationRepository) Confirm(ctx context.Context, id int64, invoiceNumber int64) error {
	args := m.Called(ctx, id, invoiceNumber)
	return args.Error(0)
}

func (m *MockReservationRepository) SetStatus(ctx context.Context, id int64, status reservation.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReservationRepository) MirrorPaymentStatus(ctx context.Context, id int64, status reservation.InstallmentStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) MaxInvoiceNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ reservation.ReservationRepository = (*MockReservationRepository)(nil)

// MockInstallmentRepository is a mock implementation of InstallmentRepository
type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindByID(ctx context.Context, id int64) (*reservation.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindOwnership(ctx context.Context, id int64) (*reservation.InstallmentOwnership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.InstallmentOwnership), args.Error(1)
}

func (m *MockInstallmentRepository) LockByID(ctx context.Context, id int64) (*reservation.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) Update(ctx context.Context, id int64, changes reservation.InstallmentChanges) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

var _ reservation.InstallmentRepository = (*MockInstallmentRepository)(nil)

// MockAllocator is a mock implementation of InvoiceNumberAllocator
type MockAllocator struct {
	mock.Mock
}

func (m *MockAllocator) Next(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockBlobStorage is a mock implementation of BlobStorage
type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.String(0), args.Error(1)
}

// MockMetrics records business events
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordReservationCreated(ctx context.Context, paymentOption string) {
	m.Called(ctx, paymentOption)
}

func (m *MockMetrics) RecordReservationApproved(ctx context.Context) { m.Called(ctx) }
func (m *MockMetrics) RecordReservationRejected(ctx context.Context) { m.Called(ctx) }
func (m *MockMetrics) RecordInvoiceConflict(ctx context.Context)     { m.Called(ctx) }

func (m *MockMetrics) RecordInstallmentTransition(ctx context.Context, from, to string) {
	m.Called(ctx, from, to)
}

var _ Metrics = (*MockMetrics)(nil)
