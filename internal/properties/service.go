package properties

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
)

// Store is the persistence surface the property service depends on.
type Store interface {
	Create(ctx context.Context, property *models.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindTemplate(ctx context.Context, propertyID uuid.UUID) (*models.InventoryTemplate, error)
	ReplaceTemplate(ctx context.Context, propertyID uuid.UUID, name string, description *string, items []models.InventoryTemplateItem) (*models.InventoryTemplate, error)
}

// CreateInput carries a new property's attributes.
type CreateInput struct {
	Name        string   `json:"name" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	AutoApprove bool     `json:"autoApprove"`
}

// UpdateInput carries partial property changes.
type UpdateInput struct {
	Name        *string  `json:"name,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Description *string  `json:"description,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	AutoApprove *bool    `json:"autoApprove,omitempty"`
}

// TemplateItemInput is one line of a template replacement.
type TemplateItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Required  bool      `json:"required"`
}

// TemplateInput replaces a property's template wholesale.
type TemplateInput struct {
	Name        string              `json:"name" validate:"required"`
	Description *string             `json:"description,omitempty"`
	Items       []TemplateItemInput `json:"items" validate:"dive"`
}

// Service owns property CRUD and the inventory template surface. All
// mutations are owner-only.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("property store is required")
	}
	return &Service{store: store}, nil
}

// Create registers a property for the owner.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Property, error) {
	property := &models.Property{
		OwnerID:     ownerID,
		Name:        input.Name,
		Address:     input.Address,
		Description: input.Description,
		Amenities:   pq.StringArray(input.Amenities),
		AutoApprove: input.AutoApprove,
	}
	if err := s.store.Create(ctx, property); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create property")
	}
	return property, nil
}

// Get returns a property with its template.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	return property, nil
}

// ListByOwner returns the caller's properties.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	properties, err := s.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list properties")
	}
	return properties, nil
}

// Update applies partial changes to an owned property.
func (s *Service) Update(ctx context.Context, id, callerID uuid.UUID, input UpdateInput) (*models.Property, error) {
	property, err := s.ownedProperty(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		property.Name = *input.Name
	}
	if input.Address != nil {
		property.Address = *input.Address
	}
	if input.Description != nil {
		property.Description = input.Description
	}
	if input.Amenities != nil {
		property.Amenities = pq.StringArray(input.Amenities)
	}
	if input.AutoApprove != nil {
		property.AutoApprove = *input.AutoApprove
	}

	if err := s.store.Update(ctx, property); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update property")
	}
	return property, nil
}

// Delete removes an owned property and its dependents.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	if _, err := s.ownedProperty(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete property")
	}
	return nil
}

// GetTemplate returns the property's required-supply template.
func (s *Service) GetTemplate(ctx context.Context, propertyID uuid.UUID) (*models.InventoryTemplate, error) {
	template, err := s.store.FindTemplate(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	return template, nil
}

// ReplaceTemplate swaps the property's template contents wholesale. Templates
// are never patched item by item.
func (s *Service) ReplaceTemplate(ctx context.Context, propertyID, callerID uuid.UUID, input TemplateInput) (*models.InventoryTemplate, error) {
	if _, err := s.ownedProperty(ctx, propertyID, callerID); err != nil {
		return nil, err
	}

	items := make([]models.InventoryTemplateItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.InventoryTemplateItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Required:  item.Required,
		})
	}

	template, err := s.store.ReplaceTemplate(ctx, propertyID, input.Name, input.Description, items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace template")
	}
	return template, nil
}

func (s *Service) ownedProperty(ctx context.Context, id, callerID uuid.UUID) (*models.Property, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the property owner may modify this property")
	}
	return property, nil
}
