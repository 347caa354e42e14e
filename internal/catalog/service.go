package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/pagination"
)

// Store is the read surface the catalog service depends on.
type Store interface {
	List(ctx context.Context, params ListParams) ([]models.Product, *pagination.Cursor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.ProductCategory, error)
}

// Page is one catalog listing result.
type Page struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// Service exposes catalog browsing.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	return &Service{store: store}, nil
}

// List returns a product page filtered by category and stock.
func (s *Service) List(ctx context.Context, categoryID *uuid.UUID, inStockOnly bool, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	products, next, err := s.store.List(ctx, ListParams{
		CategoryID:  categoryID,
		InStockOnly: inStockOnly,
		Limit:       params.Limit,
		Cursor:      cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &Page{Products: products}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// ListCategories returns all browsing categories.
func (s *Service) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}
