package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Property is a vacation rental owned by a single user. AutoApprove controls
// whether orders can be admitted from carts the owner has not approved yet.
type Property struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID          `gorm:"column:owner_id;type:uuid;not null;index" json:"ownerId"`
	Name        string             `gorm:"column:name;not null" json:"name"`
	Address     string             `gorm:"column:address;not null" json:"address"`
	Description *string            `gorm:"column:description" json:"description,omitempty"`
	Amenities   pq.StringArray     `gorm:"column:amenities;type:text[]" json:"amenities,omitempty"`
	AutoApprove bool               `gorm:"column:auto_approve;not null;default:false" json:"autoApprove"`
	Owner       *User              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Template    *InventoryTemplate `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"inventoryTemplate,omitempty"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
