package auditlog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
)

// Repository persists audit entries. The table is append-only: there are no
// update or delete paths on purpose.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to audit log operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends a single entry.
func (r *Repository) Create(ctx context.Context, entry *models.AgentAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByReservation returns a reservation's entries in creation order so the
// workflow narrative reads top to bottom.
func (r *Repository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.AgentAuditLog, error) {
	var entries []models.AgentAuditLog
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}
