package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/pkg/types"
)

// AgentAuditLog is the append-only workflow trail. Rows are never updated or
// deleted; read back in creation order they reconstruct why a cart exists.
type AgentAuditLog struct {
	ID            uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReservationID uuid.UUID     `gorm:"column:reservation_id;type:uuid;not null;index" json:"reservationId"`
	Action        string        `gorm:"column:action;not null" json:"action"`
	Details       types.JSONMap `gorm:"column:details;type:jsonb;serializer:json" json:"details"`
	TriggeredBy   string        `gorm:"column:triggered_by;not null" json:"triggeredBy"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
