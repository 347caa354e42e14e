package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/pkg/enums"
)

// User is any signed-in actor: property owner, guest, marketplace manager, or admin.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'GUEST'" json:"role"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
