package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/pagination"
)

type stubCatalogStore struct {
	lastParams ListParams
	products   []models.Product
	next       *pagination.Cursor
	product    *models.Product
	findErr    error
}

func (s *stubCatalogStore) List(ctx context.Context, params ListParams) ([]models.Product, *pagination.Cursor, error) {
	s.lastParams = params
	return s.products, s.next, nil
}

func (s *stubCatalogStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.product, nil
}

func (s *stubCatalogStore) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	return nil, nil
}

func TestListPassesFiltersThrough(t *testing.T) {
	categoryID := uuid.New()
	store := &stubCatalogStore{
		products: []models.Product{{Name: "Coffee Pods"}},
	}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	page, err := svc.List(context.Background(), &categoryID, true, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(page.Products))
	}
	if page.NextCursor != "" {
		t.Fatalf("expected empty next cursor, got %q", page.NextCursor)
	}
	if store.lastParams.CategoryID == nil || *store.lastParams.CategoryID != categoryID {
		t.Fatal("category filter not forwarded")
	}
	if !store.lastParams.InStockOnly {
		t.Fatal("in-stock filter not forwarded")
	}
}

func TestListEncodesNextCursor(t *testing.T) {
	next := &pagination.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}
	store := &stubCatalogStore{next: next}
	svc, _ := NewService(store)

	page, err := svc.List(context.Background(), nil, false, pagination.Params{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	decoded, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("returned cursor does not parse: %v", err)
	}
	if decoded.ID != next.ID {
		t.Fatalf("cursor id mismatch: %s vs %s", decoded.ID, next.ID)
	}
}

func TestListRejectsInvalidCursor(t *testing.T) {
	svc, _ := NewService(&stubCatalogStore{})

	_, err := svc.List(context.Background(), nil, false, pagination.Params{Cursor: "garbage!!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUnknownProduct(t *testing.T) {
	store := &stubCatalogStore{findErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(store)

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
