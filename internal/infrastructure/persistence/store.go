package persistence

import (
	"context"

	"github.com/travel/backend/internal/domain/reservation"
	"gorm.io/gorm"
)

// GormStore implements reservation.Store on top of a gorm handle.
// Inside Transaction the handle is the transaction itself, so every
// repository handed to fn shares it.
type GormStore struct {
	db           *gorm.DB
	clients      *GormClientRepository
	reservations *GormReservationRepository
	installments *GormInstallmentRepository
}

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:           db,
		clients:      NewGormClientRepository(db),
		reservations: NewGormReservationRepository(db),
		installments: NewGormInstallmentRepository(db),
	}
}

// Transaction runs fn inside a database transaction.
// Any error returned by fn, or a panic, rolls the transaction back.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx reservation.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

// Clients returns the client repository bound to this store's handle
func (s *GormStore) Clients() reservation.ClientRepository {
	return s.clients
}

// Reservations returns the reservation repository bound to this store's handle
func (s *GormStore) Reservations() reservation.ReservationRepository {
	return s.reservations
}

// Installments returns the installment repository bound to this store's handle
func (s *GormStore) Installments() reservation.InstallmentRepository {
	return s.installments
}

// Ensure GormStore implements reservation.Store
var _ reservation.Store = (*GormStore)(nil)
