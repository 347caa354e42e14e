package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/pkg/enums"
)

// Cart belongs to exactly one reservation. Engine-created carts carry
// SuggestedBy="agent" and status SUGGESTED; item quantity and price are
// immutable once created; contents change only by full replace.
type Cart struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReservationID uuid.UUID        `gorm:"column:reservation_id;type:uuid;not null;index" json:"reservationId"`
	Status        enums.CartStatus `gorm:"column:status;not null;default:'PENDING'" json:"status"`
	SuggestedBy   *string          `gorm:"column:suggested_by" json:"suggestedBy,omitempty"`
	TotalAmount   float64          `gorm:"column:total_amount;type:numeric(12,2);not null;default:0" json:"totalAmount"`
	Items         []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Reservation   *Reservation     `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
