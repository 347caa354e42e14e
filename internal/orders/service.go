package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db"
	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
)

const msgApprovalRequired = "Cart must be approved by the owner before ordering"

// Store is the persistence surface the order service depends on.
type Store interface {
	FindCartForAdmission(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	AdmitCart(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.Order, error)
}

// DeliveryWindowInput is the requested fulfillment slot for a new order.
type DeliveryWindowInput struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	Type      string    `json:"type" validate:"required,oneof=DELIVERY PICKUP"`
	Location  *string   `json:"location,omitempty"`
}

// CreateInput admits a cart into an order.
type CreateInput struct {
	CartID         uuid.UUID           `json:"cartId" validate:"required"`
	DeliveryWindow DeliveryWindowInput `json:"deliveryWindow" validate:"required"`
}

// Service enforces the cart-to-order admission rule.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("order store is required")
	}
	return &Service{store: store}, nil
}

// Create admits a cart into a CONFIRMED order. Admission depends on the
// property's auto-approve policy: with approval required the cart must be
// exactly APPROVED; with auto-approve on, PENDING and SUGGESTED carts are
// also admissible. On success the cart is forced to APPROVED atomically with
// the order write, marking it consumed.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	windowType, err := enums.ParseDeliveryWindowType(input.DeliveryWindow.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	cart, err := s.store.FindCartForAdmission(ctx, input.CartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if err := checkAdmission(cart); err != nil {
		return nil, err
	}

	order := &models.Order{
		CartID:        cart.ID,
		ReservationID: cart.ReservationID,
		TotalAmount:   cart.TotalAmount,
		Status:        enums.OrderStatusConfirmed,
		DeliveryWindow: &models.DeliveryWindow{
			StartTime: input.DeliveryWindow.StartTime,
			EndTime:   input.DeliveryWindow.EndTime,
			Type:      windowType,
			Location:  input.DeliveryWindow.Location,
		},
	}
	if err := s.store.AdmitCart(ctx, order); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart has already been ordered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "admit cart")
	}
	return order, nil
}

// Get returns an order with its cart and delivery window.
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// ListByReservation returns all orders attached to a reservation.
func (s *Service) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.Order, error) {
	orders, err := s.store.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// checkAdmission evaluates the cart's status against the property's policy.
func checkAdmission(cart *models.Cart) error {
	if cart.Reservation == nil || cart.Reservation.Property == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "cart loaded without its owning property")
	}

	requiresApproval := !cart.Reservation.Property.AutoApprove
	if requiresApproval {
		if cart.Status != enums.CartStatusApproved {
			return pkgerrors.New(pkgerrors.CodeValidation, msgApprovalRequired)
		}
		return nil
	}

	switch cart.Status {
	case enums.CartStatusApproved, enums.CartStatusPending, enums.CartStatusSuggested:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cart in status %s cannot be ordered", cart.Status))
	}
}
