package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
)

type stubOrderStore struct {
	cart     *models.Cart
	admitted *models.Order
	admitErr error
	order    *models.Order
	orders   []models.Order
}

func (s *stubOrderStore) FindCartForAdmission(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	if s.cart == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

func (s *stubOrderStore) AdmitCart(ctx context.Context, order *models.Order) error {
	if s.admitErr != nil {
		return s.admitErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.admitted = order
	return nil
}

func (s *stubOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderStore) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.Order, error) {
	return s.orders, nil
}

func cartWithPolicy(status enums.CartStatus, autoApprove bool) *models.Cart {
	return &models.Cart{
		ID:            uuid.New(),
		ReservationID: uuid.New(),
		Status:        status,
		TotalAmount:   62.98,
		Reservation: &models.Reservation{
			Property: &models.Property{ID: uuid.New(), AutoApprove: autoApprove},
		},
	}
}

func deliveryWindow() DeliveryWindowInput {
	start := time.Now().Add(24 * time.Hour)
	return DeliveryWindowInput{
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Type:      "DELIVERY",
	}
}

func TestCreateRequiresApprovedCart(t *testing.T) {
	store := &stubOrderStore{cart: cartWithPolicy(enums.CartStatusSuggested, false)}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		CartID:         store.cart.ID,
		DeliveryWindow: deliveryWindow(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
	if typed.Message() != msgApprovalRequired {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	if store.admitted != nil {
		t.Fatal("no order should be created")
	}
}

func TestCreateFromApprovedCart(t *testing.T) {
	store := &stubOrderStore{cart: cartWithPolicy(enums.CartStatusApproved, false)}
	svc, _ := NewService(store)

	order, err := svc.Create(context.Background(), CreateInput{
		CartID:         store.cart.ID,
		DeliveryWindow: deliveryWindow(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected CONFIRMED got %s", order.Status)
	}
	if order.TotalAmount != 62.98 {
		t.Fatalf("expected snapshotted total got %v", order.TotalAmount)
	}
	if order.DeliveryWindow == nil || order.DeliveryWindow.Type != enums.DeliveryWindowTypeDelivery {
		t.Fatalf("unexpected delivery window %+v", order.DeliveryWindow)
	}
}

func TestCreateAutoApproveAdmitsOpenStatuses(t *testing.T) {
	for _, status := range []enums.CartStatus{
		enums.CartStatusPending,
		enums.CartStatusSuggested,
		enums.CartStatusApproved,
	} {
		store := &stubOrderStore{cart: cartWithPolicy(status, true)}
		svc, _ := NewService(store)

		_, err := svc.Create(context.Background(), CreateInput{
			CartID:         store.cart.ID,
			DeliveryWindow: deliveryWindow(),
		})
		if err != nil {
			t.Fatalf("expected %s cart to be admitted got %v", status, err)
		}
	}
}

func TestCreateRejectedCartNeverAdmitted(t *testing.T) {
	store := &stubOrderStore{cart: cartWithPolicy(enums.CartStatusRejected, true)}
	svc, _ := NewService(store)

	_, err := svc.Create(context.Background(), CreateInput{
		CartID:         store.cart.ID,
		DeliveryWindow: deliveryWindow(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
	if typed.Message() == msgApprovalRequired {
		t.Fatal("rejected cart should fail with the status-specific message")
	}
}

func TestCreateMissingCart(t *testing.T) {
	svc, _ := NewService(&stubOrderStore{})

	_, err := svc.Create(context.Background(), CreateInput{
		CartID:         uuid.New(),
		DeliveryWindow: deliveryWindow(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCreateInvalidWindowType(t *testing.T) {
	store := &stubOrderStore{cart: cartWithPolicy(enums.CartStatusApproved, false)}
	svc, _ := NewService(store)

	window := deliveryWindow()
	window.Type = "TELEPORT"
	_, err := svc.Create(context.Background(), CreateInput{CartID: store.cart.ID, DeliveryWindow: window})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}
