package managers

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

// Store is the persistence surface the marketplace service depends on.
type Store interface {
	List(ctx context.Context, params ListParams) ([]models.PropertyManager, *pagination.Cursor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PropertyManager, error)
	CreateReview(ctx context.Context, review *models.ManagerReview) error
}

// ReviewInput is a new review of a marketplace manager.
type ReviewInput struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

// Page is one marketplace listing result.
type Page struct {
	Managers   []models.PropertyManager `json:"managers"`
	NextCursor string                   `json:"nextCursor,omitempty"`
}

// Service exposes the property-manager marketplace.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("manager store is required")
	}
	return &Service{store: store}, nil
}

// List returns a marketplace page, optionally filtered to a region.
func (s *Service) List(ctx context.Context, region *string, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	managers, next, err := s.store.List(ctx, ListParams{
		Region: region,
		Limit:  params.Limit,
		Cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list managers")
	}

	page := &Page{Managers: managers}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

// Get returns a manager profile with regions and reviews.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.PropertyManager, error) {
	manager, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manager not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load manager")
	}
	return manager, nil
}

// Review records a rating for a manager. The manager's aggregate rating is
// refreshed atomically with the review write.
func (s *Service) Review(ctx context.Context, managerID, reviewerID uuid.UUID, input ReviewInput) (*models.ManagerReview, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.Get(ctx, managerID); err != nil {
		return nil, err
	}

	review := &models.ManagerReview{
		ManagerID:  managerID,
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}
