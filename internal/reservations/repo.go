package reservations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
)

// Repository is the reservation persistence surface.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a booking.
func (r *Repository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// FindByID loads a reservation with its property.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindByGuest returns a guest's reservations, soonest check-in first.
func (r *Repository) FindByGuest(ctx context.Context, guestID uuid.UUID) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("guest_id = ?", guestID).
		Order("check_in ASC").
		Find(&reservations).Error
	return reservations, err
}

// FindByProperty returns a property's reservations, soonest check-in first.
func (r *Repository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("check_in ASC").
		Find(&reservations).Error
	return reservations, err
}
