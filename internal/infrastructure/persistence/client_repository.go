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

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByEmail finds a client by its normalized email
func (r *GormClientRepository) FindByEmail(ctx context.Context, email string) (*reservation.Client, error) {
	email = reservation.NormalizeEmail(email)
	var model models.ClientModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("client", email)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOrCreate inserts the client unless one with the same email exists, then
// returns the stored row. The insert ignores email conflicts, so two requests
// racing on a new email both end up with the same client.
func (r *GormClientRepository) FindOrCreate(ctx context.Context, client *reservation.Client) (*reservation.Client, error) {
	if client == nil {
		return nil, shared.NewInvalidArgumentError("client is required")
	}
	model := models.ClientModelFromDomain(client)
	if model.Email == "" {
		return nil, shared.NewInvalidArgumentError("client email is required")
	}
	model.ID = 0

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(model).Error; err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, model.Email)
}

// Ensure GormClientRepository implements reservation.ClientRepository
var _ reservation.ClientRepository = (*GormClientRepository)(nil)
