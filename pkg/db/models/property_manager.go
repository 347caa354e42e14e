package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyManager is a marketplace profile for a user with the MANAGER role.
// Rating and ReviewCount are denormalized from ManagerReview rows.
type PropertyManager struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	Bio         string          `gorm:"column:bio;not null" json:"bio"`
	Rating      float64         `gorm:"column:rating;type:numeric(3,2);not null;default:0" json:"rating"`
	ReviewCount int             `gorm:"column:review_count;not null;default:0" json:"reviewCount"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Regions     []ServiceRegion `gorm:"foreignKey:ManagerID;constraint:OnDelete:CASCADE" json:"regions,omitempty"`
	Reviews     []ManagerReview `gorm:"foreignKey:ManagerID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// ServiceRegion is a free-text region or zip code a manager serves.
type ServiceRegion struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ManagerID uuid.UUID `gorm:"column:manager_id;type:uuid;not null;index" json:"managerId"`
	Region    string    `gorm:"column:region;not null" json:"region"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// ManagerReview is a guest/owner review of a marketplace manager.
type ManagerReview struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ManagerID  uuid.UUID `gorm:"column:manager_id;type:uuid;not null;index" json:"managerId"`
	ReviewerID uuid.UUID `gorm:"column:reviewer_id;type:uuid;not null" json:"reviewerId"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
	Comment    *string   `gorm:"column:comment" json:"comment,omitempty"`
	Reviewer   *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
