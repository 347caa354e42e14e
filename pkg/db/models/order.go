package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/pkg/enums"
)

// Order is created from exactly one cart when the approval gate admits it.
// The unique index on cart_id enforces the one-order-per-cart rule.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID         uuid.UUID         `gorm:"column:cart_id;type:uuid;not null;uniqueIndex" json:"cartId"`
	ReservationID  uuid.UUID         `gorm:"column:reservation_id;type:uuid;not null;index" json:"reservationId"`
	TotalAmount    float64           `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'CONFIRMED'" json:"status"`
	Cart           *Cart             `gorm:"foreignKey:CartID" json:"cart,omitempty"`
	DeliveryWindow *DeliveryWindow   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"deliveryWindow,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// DeliveryWindow pins when and how an order reaches the property.
type DeliveryWindow struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID                `gorm:"column:order_id;type:uuid;not null;uniqueIndex" json:"orderId"`
	StartTime time.Time                `gorm:"column:start_time;not null" json:"startTime"`
	EndTime   time.Time                `gorm:"column:end_time;not null" json:"endTime"`
	Type      enums.DeliveryWindowType `gorm:"column:type;not null;default:'DELIVERY'" json:"type"`
	Location  *string                  `gorm:"column:location" json:"location,omitempty"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
