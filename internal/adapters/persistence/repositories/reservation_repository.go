package repositories

import (
	"context"
	"time"

	"bibliocirc/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormReservationRepository handles reservation database operations
type GormReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// Create creates a new reservation
func (r *GormReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

// GetByID returns a reservation with its document preloaded
func (r *GormReservationRepository) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Document").
		First(&res, id).Error
	return &res, err
}

// HasActive reports whether the patron already holds an ACTIVE
// reservation for the document
func (r *GormReservationRepository) HasActive(ctx context.Context, patronID, documentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("patron_id = ? AND document_id = ? AND status = ?", patronID, documentID, models.ReservationActive).
		Count(&count).Error
	return count > 0, err
}

// ListByPatron returns a patron's reservations, newest first
func (r *GormReservationRepository) ListByPatron(ctx context.Context, patronID uint, activeOnly bool, offset, limit int) ([]models.Reservation, int64, error) {
	var reservations []models.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Reservation{}).Where("patron_id = ?", patronID)
	if activeOnly {
		query = query.Where("status = ?", models.ReservationActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Document").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reservations).Error
	return reservations, total, err
}

// Transition moves an ACTIVE reservation to a terminal state. Keyed on
// the current state so a reservation can only leave ACTIVE once.
func (r *GormReservationRepository) Transition(ctx context.Context, id uint, to models.ReservationStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, models.ReservationActive).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

// ListExpiryCandidates returns ids of ACTIVE reservations whose pickup
// date has passed, bounded for batch processing
func (r *GormReservationRepository) ListExpiryCandidates(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("status = ? AND reserved_for < ?", models.ReservationActive, now).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// MarkExpired flips one stale ACTIVE reservation to EXPIRED. Idempotent
// under overlapping sweeps for the same reason MarkOverdue is.
func (r *GormReservationRepository) MarkExpired(ctx context.Context, id uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ? AND reserved_for < ?", id, models.ReservationActive, now).
		Updates(map[string]interface{}{
			"status":     models.ReservationExpired,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}
