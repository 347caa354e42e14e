package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory groups catalog products for browsing.
type ProductCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Products  []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// Product is a catalog supply item. Price is a flat unit price; monetary
// totals elsewhere are price x quantity sums with rounding deferred to
// presentation.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID  uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index" json:"categoryId"`
	Name        string           `gorm:"column:name;not null" json:"name"`
	Description *string          `gorm:"column:description" json:"description,omitempty"`
	Price       float64          `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Unit        *string          `gorm:"column:unit" json:"unit,omitempty"`
	ImageURL    *string          `gorm:"column:image_url" json:"imageUrl,omitempty"`
	InStock     bool             `gorm:"column:in_stock;not null;default:true" json:"inStock"`
	Category    *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
