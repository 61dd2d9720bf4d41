package repositories

import (
	"context"
	"time"

	"bibliocirc/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormPatronRepository handles patron database operations
type GormPatronRepository struct {
	db *gorm.DB
}

// NewPatronRepository creates a new patron repository
func NewPatronRepository(db *gorm.DB) *GormPatronRepository {
	return &GormPatronRepository{db: db}
}

// Create creates a new patron
func (r *GormPatronRepository) Create(ctx context.Context, patron *models.Patron) error {
	return r.db.WithContext(ctx).Create(patron).Error
}

// GetByID returns a patron by ID
func (r *GormPatronRepository) GetByID(ctx context.Context, id uint) (*models.Patron, error) {
	var patron models.Patron
	err := r.db.WithContext(ctx).First(&patron, id).Error
	return &patron, err
}

// GetByCardNo returns a patron by library card number
func (r *GormPatronRepository) GetByCardNo(ctx context.Context, cardNo string) (*models.Patron, error) {
	var patron models.Patron
	err := r.db.WithContext(ctx).Where("card_no = ?", cardNo).First(&patron).Error
	return &patron, err
}

// ExistsByCardNo reports whether a card number is already registered
func (r *GormPatronRepository) ExistsByCardNo(ctx context.Context, cardNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patron{}).
		Where("card_no = ?", cardNo).
		Count(&count).Error
	return count > 0, err
}

// List returns patrons ordered by card number
func (r *GormPatronRepository) List(ctx context.Context, offset, limit int) ([]models.Patron, int64, error) {
	var patrons []models.Patron
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Patron{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("card_no ASC").
		Offset(offset).Limit(limit).
		Find(&patrons).Error
	return patrons, total, err
}

// SetSuspendedUntil writes the suspension window onto the patron record
func (r *GormPatronRepository) SetSuspendedUntil(ctx context.Context, patronID uint, until time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Patron{}).
		Where("id = ?", patronID).
		Updates(map[string]interface{}{
			"suspended_until": until,
			"updated_at":      time.Now(),
		}).Error
}
