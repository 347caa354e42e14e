package managers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/pagination"
)

// Repository is the marketplace persistence surface.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListParams filter a marketplace page.
type ListParams struct {
	Region *string
	Limit  int
	Cursor *pagination.Cursor
}

// List returns a page of managers newest first, optionally filtered to a
// service region.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.PropertyManager, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.PropertyManager{}).
		Preload("User").
		Preload("Regions")
	if params.Region != nil {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&models.ServiceRegion{}).Select("manager_id").Where("region = ?", *params.Region),
		)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var managers []models.PropertyManager
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&managers).Error; err != nil {
		return nil, nil, err
	}

	if len(managers) > normalized {
		next := managers[normalized]
		managers = managers[:normalized]
		return managers, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return managers, nil, nil
}

// FindByID loads a manager with regions and reviews.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PropertyManager, error) {
	var manager models.PropertyManager
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Regions").
		Preload("Reviews.Reviewer").
		Where("id = ?", id).
		First(&manager).Error
	if err != nil {
		return nil, err
	}
	return &manager, nil
}

// CreateReview appends a review and refreshes the manager's denormalized
// rating and review count in the same transaction.
func (r *Repository) CreateReview(ctx context.Context, review *models.ManagerReview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var stats struct {
			Avg   float64
			Count int
		}
		err := tx.Model(&models.ManagerReview{}).
			Select("AVG(rating) AS avg, COUNT(*) AS count").
			Where("manager_id = ?", review.ManagerID).
			Scan(&stats).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.PropertyManager{}).
			Where("id = ?", review.ManagerID).
			Updates(map[string]any{
				"rating":       stats.Avg,
				"review_count": stats.Count,
			}).Error
	})
}
