package properties

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
)

// Repository is the property persistence surface.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new property row.
func (r *Repository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// FindByID loads a property with its template.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Template.Items.Product").
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// FindByOwner returns all properties owned by the provided user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&properties).Error
	return properties, err
}

// Update saves the provided property.
func (r *Repository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// Delete removes a property; dependent rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id).Error
}

// FindTemplate loads a property's template with items and products.
func (r *Repository) FindTemplate(ctx context.Context, propertyID uuid.UUID) (*models.InventoryTemplate, error) {
	var template models.InventoryTemplate
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("property_id = ?", propertyID).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ReplaceTemplate upserts the property's template and swaps its entire item
// set in one transaction. A concurrent reader never observes the template
// between delete and recreate.
func (r *Repository) ReplaceTemplate(ctx context.Context, propertyID uuid.UUID, name string, description *string, items []models.InventoryTemplateItem) (*models.InventoryTemplate, error) {
	var template models.InventoryTemplate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("property_id = ?", propertyID).First(&template).Error
		if err == gorm.ErrRecordNotFound {
			template = models.InventoryTemplate{PropertyID: propertyID, Name: name, Description: description}
			if err := tx.Create(&template).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			template.Name = name
			template.Description = description
			if err := tx.Save(&template).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("template_id = ?", template.ID).Delete(&models.InventoryTemplateItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].TemplateID = template.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		template.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}
