package repositories

import (
	"context"
	"time"

	"bibliocirc/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormSanctionRepository handles sanction database operations
type GormSanctionRepository struct {
	db *gorm.DB
}

// NewSanctionRepository creates a new sanction repository
func NewSanctionRepository(db *gorm.DB) *GormSanctionRepository {
	return &GormSanctionRepository{db: db}
}

// Create records a new sanction
func (r *GormSanctionRepository) Create(ctx context.Context, sanction *models.Sanction) error {
	return r.db.WithContext(ctx).Create(sanction).Error
}

// ListByPatron returns a patron's sanction history, newest first
func (r *GormSanctionRepository) ListByPatron(ctx context.Context, patronID uint) ([]models.Sanction, error) {
	var sanctions []models.Sanction
	err := r.db.WithContext(ctx).
		Where("patron_id = ?", patronID).
		Order("starts_at DESC").
		Find(&sanctions).Error
	return sanctions, err
}

// CountActive returns the number of sanctions still in force at now
func (r *GormSanctionRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Sanction{}).
		Where("status = ? AND ends_at > ?", models.SanctionActive, now).
		Count(&count).Error
	return count, err
}
