package carts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/internal/auditlog"
	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/types"
)

// Decision actions accepted by Decide.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Store is the persistence surface the cart service depends on.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem, total float64) error
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
	FindProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// AuditRecorder appends approval-gate entries to the reservation's trail.
type AuditRecorder interface {
	Record(ctx context.Context, reservationID uuid.UUID, action string, details types.JSONMap, triggeredBy string) (*models.AgentAuditLog, error)
}

// ItemInput is one requested cart line.
type ItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateInput assembles a new guest cart.
type CreateInput struct {
	ReservationID uuid.UUID   `json:"reservationId" validate:"required"`
	Items         []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// Service owns cart assembly and the approval gate.
type Service struct {
	store Store
	audit AuditRecorder
}

func NewService(store Store, audit AuditRecorder) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &Service{store: store, audit: audit}, nil
}

// Create assembles a PENDING cart, snapshotting each product's current price.
// Every referenced product must exist.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Cart, error) {
	items, total, err := s.priceItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{
		ReservationID: input.ReservationID,
		Status:        enums.CartStatusPending,
		TotalAmount:   total,
		Items:         items,
	}
	if err := s.store.Create(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

// Get returns a cart with its items.
func (s *Service) Get(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.store.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

// ListByReservation returns all carts attached to a reservation.
func (s *Service) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.Cart, error) {
	carts, err := s.store.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list carts")
	}
	return carts, nil
}

// Update replaces a cart's contents wholesale. Item quantity and price are
// immutable once created, so edits are delete-all plus recreate with fresh
// price snapshots. Terminal carts cannot be edited.
func (s *Service) Update(ctx context.Context, cartID uuid.UUID, items []ItemInput) (*models.Cart, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.Status == enums.CartStatusApproved || cart.Status == enums.CartStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cart in status %s cannot be modified", cart.Status))
	}

	priced, total, err := s.priceItems(ctx, items)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceItems(ctx, cartID, priced, total); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace cart items")
	}
	return s.Get(ctx, cartID)
}

// Decide applies an owner's approve or reject verdict. Only the owner of the
// reservation's property may transition the cart; the verdict is recorded in
// the audit trail tagged with the acting user. Rejection is terminal but the
// cart and its items stay inspectable.
func (s *Service) Decide(ctx context.Context, cartID, userID uuid.UUID, action string) (*models.Cart, error) {
	var status enums.CartStatus
	var auditAction string
	switch action {
	case DecisionApprove:
		status, auditAction = enums.CartStatusApproved, auditlog.ActionCartApproved
	case DecisionReject:
		status, auditAction = enums.CartStatusRejected, auditlog.ActionCartRejected
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("action must be %q or %q", DecisionApprove, DecisionReject))
	}

	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	owner, err := ownerOf(cart)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the property owner may decide on this cart")
	}

	if err := s.store.UpdateStatus(ctx, cartID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart status")
	}
	if _, err := s.audit.Record(ctx, cart.ReservationID, auditAction, types.JSONMap{
		"cartId": cartID.String(),
	}, userID.String()); err != nil {
		return nil, err
	}

	cart.Status = status
	return cart, nil
}

func (s *Service) priceItems(ctx context.Context, inputs []ItemInput) ([]models.CartItem, float64, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, item := range inputs {
		ids = append(ids, item.ProductID)
	}
	products, err := s.store.FindProducts(ctx, ids)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	prices := make(map[uuid.UUID]float64, len(products))
	for _, product := range products {
		prices[product.ID] = product.Price
	}

	items := make([]models.CartItem, 0, len(inputs))
	total := 0.0
	for _, input := range inputs {
		price, ok := prices[input.ProductID]
		if !ok {
			return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("product %s not found", input.ProductID))
		}
		items = append(items, models.CartItem{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			Price:     price,
		})
		total += price * float64(input.Quantity)
	}
	return items, total, nil
}

func ownerOf(cart *models.Cart) (uuid.UUID, error) {
	if cart.Reservation == nil || cart.Reservation.Property == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeDependency, "cart loaded without its owning property")
	}
	return cart.Reservation.Property.OwnerID, nil
}
