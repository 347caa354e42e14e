package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/pkg/enums"
)

// Reservation identifies a guest stay at a property. The gap-analysis engine
// reads it together with the property template and the reservation's carts.
type Reservation struct {
	ID         uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PropertyID uuid.UUID               `gorm:"column:property_id;type:uuid;not null;index" json:"propertyId"`
	GuestID    uuid.UUID               `gorm:"column:guest_id;type:uuid;not null;index" json:"guestId"`
	CheckIn    time.Time               `gorm:"column:check_in;not null" json:"checkIn"`
	CheckOut   time.Time               `gorm:"column:check_out;not null" json:"checkOut"`
	Status     enums.ReservationStatus `gorm:"column:status;not null;default:'UPCOMING'" json:"status"`
	Property   *Property               `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Guest      *User                   `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Carts      []Cart                  `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"carts,omitempty"`
	Orders     []Order                 `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
