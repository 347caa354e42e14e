package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryTemplate is the per-property required-supply list. One per
// property; its items are replaced wholesale, never patched.
type InventoryTemplate struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PropertyID  uuid.UUID               `gorm:"column:property_id;type:uuid;not null;uniqueIndex" json:"propertyId"`
	Name        string                  `gorm:"column:name;not null" json:"name"`
	Description *string                 `gorm:"column:description" json:"description,omitempty"`
	Items       []InventoryTemplateItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// InventoryTemplateItem pins a product to a required quantity. Only items
// with Required=true participate in gap analysis.
type InventoryTemplateItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TemplateID uuid.UUID `gorm:"column:template_id;type:uuid;not null;index" json:"templateId"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	Quantity   int       `gorm:"column:quantity;not null" json:"quantity"`
	Required   bool      `gorm:"column:required;not null;default:true" json:"required"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
