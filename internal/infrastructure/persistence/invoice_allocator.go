package persistence

import (
	"context"
	"fmt"

	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultInvoiceSequence is the invoice_sequences row used for reservation invoices
const DefaultInvoiceSequence = "reservation_invoice"

// GormInvoiceNumberAllocator issues invoice numbers from a counter row.
// Each call runs its own short transaction: the UPDATE takes the row lock,
// so concurrent callers serialize on it and never read the same value.
// Numbers taken by an approval that later fails are not reused.
type GormInvoiceNumberAllocator struct {
	db       *gorm.DB
	sequence string
}

// NewGormInvoiceNumberAllocator creates a new GormInvoiceNumberAllocator
func NewGormInvoiceNumberAllocator(db *gorm.DB, sequence string) *GormInvoiceNumberAllocator {
	if sequence == "" {
		sequence = DefaultInvoiceSequence
	}
	return &GormInvoiceNumberAllocator{db: db, sequence: sequence}
}

// Next increments the counter and returns the new value
func (a *GormInvoiceNumberAllocator) Next(ctx context.Context) (int64, error) {
	var next int64
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		incremented, err := a.increment(tx)
		if err != nil {
			return err
		}
		if !incremented {
			if err := a.seed(ctx, tx); err != nil {
				return err
			}
			if incremented, err = a.increment(tx); err != nil {
				return err
			}
			if !incremented {
				return fmt.Errorf("invoice sequence %q could not be created", a.sequence)
			}
		}
		return tx.Model(&models.InvoiceSequenceModel{}).
			Select("last_value").
			Where("name = ?", a.sequence).
			Scan(&next).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return next, nil
}

func (a *GormInvoiceNumberAllocator) increment(tx *gorm.DB) (bool, error) {
	result := tx.Model(&models.InvoiceSequenceModel{}).
		Where("name = ?", a.sequence).
		Update("last_value", gorm.Expr("last_value + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// seed creates the counter row starting at the highest invoice number already
// stored, so a fresh counter never collides with existing reservations
func (a *GormInvoiceNumberAllocator) seed(ctx context.Context, tx *gorm.DB) error {
	start, err := NewGormReservationRepository(tx).MaxInvoiceNumber(ctx)
	if err != nil {
		return err
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.InvoiceSequenceModel{Name: a.sequence, LastValue: start}).Error
}

// Ensure GormInvoiceNumberAllocator implements reservation.InvoiceNumberAllocator
var _ reservation.InvoiceNumberAllocator = (*GormInvoiceNumberAllocator)(nil)
