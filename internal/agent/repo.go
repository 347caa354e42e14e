package agent

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
)

// Repository gives the engine its read/write surface over the store.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to engine persistence.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindReservationForAnalysis loads a reservation with the property's template
// (items and products included) and the reservation's carts in the statuses
// that count toward the existing-quantity baseline. Rejected carts are never
// loaded.
func (r *Repository) FindReservationForAnalysis(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Property.Template.Items.Product").
		Preload("Carts", "status IN ?", enums.ActiveCartStatuses).
		Preload("Carts.Items").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindInStockProducts returns the subset of products that exist and are
// currently in stock.
func (r *Repository) FindInStockProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("in_stock = ?", true).
		Find(&products).Error
	return products, err
}

// ReservationExists reports whether the reservation is present, without
// loading any associations.
func (r *Repository) ReservationExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateCart inserts the cart and its items atomically so a failed run never
// leaves a partial cart behind.
func (r *Repository) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(cart).Error
	})
}
