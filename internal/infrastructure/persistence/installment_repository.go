package persistence

import (
	"context"
	"errors"

	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInstallmentRepository implements InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID finds an installment by its ID
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id int64) (*reservation.Installment, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// LockByID finds an installment by its ID with SELECT ... FOR UPDATE
func (r *GormInstallmentRepository) LockByID(ctx context.Context, id int64) (*reservation.Installment, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormInstallmentRepository) find(db *gorm.DB, id int64) (*reservation.Installment, error) {
	var model models.InstallmentModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("installment", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOwnership loads the authorization projection of an installment
func (r *GormInstallmentRepository) FindOwnership(ctx context.Context, id int64) (*reservation.InstallmentOwnership, error) {
	var model models.InstallmentModel
	if err := r.db.WithContext(ctx).
		Select("id", "reservation_id", "status", "payment_date").
		Where("id = ?", id).
		Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("installment", id)
		}
		return nil, err
	}
	return &reservation.InstallmentOwnership{
		ID:            model.ID,
		ReservationID: model.ReservationID,
		Status:        model.Status,
		PaymentDate:   model.PaymentDate,
	}, nil
}

// Update writes only the fields present in changes
func (r *GormInstallmentRepository) Update(ctx context.Context, id int64, changes reservation.InstallmentChanges) error {
	updates := make(map[string]any)
	if changes.Amount != nil {
		updates["amount"] = *changes.Amount
	}
	if changes.DueDate != nil {
		updates["due_date"] = *changes.DueDate
	}
	if changes.Status != nil {
		updates["status"] = *changes.Status
	}
	if changes.PaymentDate != nil {
		updates["payment_date"] = *changes.PaymentDate
	} else if changes.ClearPaymentDate {
		updates["payment_date"] = nil
	}
	if changes.ReceiptURL != nil {
		updates["receipt_url"] = *changes.ReceiptURL
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.InstallmentModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("installment", id)
	}
	return nil
}

// Ensure GormInstallmentRepository implements reservation.InstallmentRepository
var _ reservation.InstallmentRepository = (*GormInstallmentRepository)(nil)
