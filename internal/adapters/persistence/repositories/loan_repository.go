package repositories

import (
	"context"
	"time"

	"bibliocirc/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormLoanRepository handles loan database operations
type GormLoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// Create creates a new loan
func (r *GormLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID returns a loan with its item and document preloaded
func (r *GormLoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Item.Document").
		Preload("Patron").
		First(&loan, id).Error
	return &loan, err
}

// ListByPatron returns a patron's loans, newest first
func (r *GormLoanRepository) ListByPatron(ctx context.Context, patronID uint, outstandingOnly bool, offset, limit int) ([]models.Loan, int64, error) {
	var loans []models.Loan
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Loan{}).Where("patron_id = ?", patronID)
	if outstandingOnly {
		query = query.Where("status IN ?", []models.LoanStatus{models.LoanActive, models.LoanOverdue})
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Item").
		Preload("Item.Document").
		Order("placed_at DESC").
		Offset(offset).Limit(limit).
		Find(&loans).Error
	return loans, total, err
}

// FinishLoan transitions an outstanding loan to RETURNED. The update is
// keyed on the current state so two concurrent returns resolve to
// exactly one transition.
func (r *GormLoanRepository) FinishLoan(ctx context.Context, loanID uint, returnedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND status IN ?", loanID, []models.LoanStatus{models.LoanActive, models.LoanOverdue}).
		Updates(map[string]interface{}{
			"status":      models.LoanReturned,
			"returned_at": returnedAt,
			"updated_at":  time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

// UpdateDue pushes the due date forward while the loan is outstanding
func (r *GormLoanRepository) UpdateDue(ctx context.Context, loanID uint, due time.Time, status models.LoanStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND status IN ?", loanID, []models.LoanStatus{models.LoanActive, models.LoanOverdue}).
		Updates(map[string]interface{}{
			"due_at":     due,
			"status":     status,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

// ListOverdueCandidates returns ids of ACTIVE loans past their due date,
// bounded so the sweep works in batches
func (r *GormLoanRepository) ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("status = ? AND due_at < ?", models.LoanActive, now).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// MarkOverdue flips one ACTIVE loan past its due date to OVERDUE. The
// conditional keeps the sweep idempotent: a second sweep (or an
// overlapping one) finds no row to change and reports false, so the
// overdue event fires at most once per loan.
func (r *GormLoanRepository) MarkOverdue(ctx context.Context, loanID uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND status = ? AND due_at < ?", loanID, models.LoanActive, now).
		Updates(map[string]interface{}{
			"status":     models.LoanOverdue,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

// CountByStatus returns loan counts grouped by status
func (r *GormLoanRepository) CountByStatus(ctx context.Context) (map[models.LoanStatus]int64, error) {
	type row struct {
		Status models.LoanStatus
		Count  int64
	}
	var rows []row

	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error

	counts := map[models.LoanStatus]int64{
		models.LoanActive:   0,
		models.LoanOverdue:  0,
		models.LoanReturned: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, err
}
