package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
)

// Repository is the order persistence surface.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindCartForAdmission loads the source cart with the owning property so the
// admission rule can read its auto-approve flag.
func (r *Repository) FindCartForAdmission(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Reservation.Property").
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AdmitCart creates the order with its delivery window and forces the source
// cart to APPROVED in a single transaction. Both writes succeed or neither
// does; a cart is never marked consumed without its order.
func (r *Repository) AdmitCart(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", order.CartID).
			Update("status", enums.CartStatusApproved).Error
	})
}

// FindByID loads an order with its cart and delivery window.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Cart.Items").
		Preload("DeliveryWindow").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByReservation returns the reservation's orders newest first.
func (r *Repository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("DeliveryWindow").
		Where("reservation_id = ?", reservationID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
