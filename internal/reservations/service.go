package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
)

// Store is the persistence surface the reservation service depends on.
type Store interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindByGuest(ctx context.Context, guestID uuid.UUID) ([]models.Reservation, error)
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.Reservation, error)
}

// CreateInput books a stay. The guest is named explicitly so owners and
// booking integrations can reserve on a guest's behalf.
type CreateInput struct {
	PropertyID uuid.UUID `json:"propertyId" validate:"required"`
	GuestID    uuid.UUID `json:"guestId" validate:"required"`
	CheckIn    time.Time `json:"checkIn" validate:"required"`
	CheckOut   time.Time `json:"checkOut" validate:"required,gtfield=CheckIn"`
}

// Service exposes reservation reads to the supply-ordering flows.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("reservation store is required")
	}
	return &Service{store: store}, nil
}

// Create books a new stay. Bookings start UPCOMING; status moves with the
// calendar, not with supply ordering.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Reservation, error) {
	if !input.CheckOut.After(input.CheckIn) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkOut must be after checkIn")
	}

	reservation := &models.Reservation{
		PropertyID: input.PropertyID,
		GuestID:    input.GuestID,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Status:     enums.ReservationStatusUpcoming,
	}
	if err := s.store.Create(ctx, reservation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
	}
	return reservation, nil
}

// Get returns a reservation with its property.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	return reservation, nil
}

// ListByGuest returns the caller's upcoming and past stays.
func (s *Service) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]models.Reservation, error) {
	reservations, err := s.store.FindByGuest(ctx, guestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	return reservations, nil
}

// ListByProperty returns a property's reservations.
func (s *Service) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.Reservation, error) {
	reservations, err := s.store.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	return reservations, nil
}
