package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem snapshots a product's unit price at the moment it enters the cart.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index" json:"cartId"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	Price     float64   `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
