package repositories

import (
	"context"
	"time"

	"bibliocirc/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// claimCandidates is how many AVAILABLE items are read per claim round
// before falling back to a fresh read
const claimCandidates = 5

// claimRounds bounds the retry against freshly read candidates when
// concurrent claimers steal every candidate of a round
const claimRounds = 3

// GormInventoryRepository handles document and item database operations
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// ============================================================
// Document queries
// ============================================================

// CreateDocument creates a new catalog document
func (r *GormInventoryRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetDocumentByID returns a document by ID
func (r *GormInventoryRepository) GetDocumentByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).First(&doc, id).Error
	return &doc, err
}

// ListDocuments returns documents matching an optional title/author search
func (r *GormInventoryRepository) ListDocuments(ctx context.Context, search string, offset, limit int) ([]models.Document, int64, error) {
	var docs []models.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Document{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("title ASC").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, total, err
}

// DeleteDocument soft-deletes a document (caller verifies no items remain)
func (r *GormInventoryRepository) DeleteDocument(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, id).Error
}

// ============================================================
// Item queries
// ============================================================

// CreateItem creates a new physical copy
func (r *GormInventoryRepository) CreateItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetItemByID returns an item by ID
func (r *GormInventoryRepository) GetItemByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Preload("Document").First(&item, id).Error
	return &item, err
}

// ListItemsByDocument returns all items of a document
func (r *GormInventoryRepository) ListItemsByDocument(ctx context.Context, documentID uint) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// CountItems returns the number of items attached to a document
func (r *GormInventoryRepository) CountItems(ctx context.Context, documentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	return count, err
}

// ============================================================
// State transitions
// ============================================================

// ClaimAvailableItem flips one AVAILABLE item of the document to
// ON_LOAN. Each candidate is taken with a compare-and-swap update so
// two concurrent claimers can never both win the same item; when every
// candidate of a round is stolen, a fresh candidate set is read.
func (r *GormInventoryRepository) ClaimAvailableItem(ctx context.Context, documentID uint) (uint, error) {
	for round := 0; round < claimRounds; round++ {
		var ids []uint
		err := r.db.WithContext(ctx).Model(&models.Item{}).
			Where("document_id = ? AND status = ?", documentID, models.ItemAvailable).
			Order("id ASC").
			Limit(claimCandidates).
			Pluck("id", &ids).Error
		if err != nil {
			return 0, err
		}
		if len(ids) == 0 {
			return 0, nil
		}

		for _, id := range ids {
			ok, err := r.ClaimItem(ctx, id)
			if err != nil {
				return 0, err
			}
			if ok {
				return id, nil
			}
		}
	}
	return 0, nil
}

// ClaimItem flips one specific item from AVAILABLE to ON_LOAN
func (r *GormInventoryRepository) ClaimItem(ctx context.Context, itemID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND status = ?", itemID, models.ItemAvailable).
		Updates(map[string]interface{}{
			"status":     models.ItemOnLoan,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

// ReleaseItem flips an item from ON_LOAN back to AVAILABLE. Items in
// MAINTENANCE or LOST keep their state; an already-AVAILABLE item is
// left untouched.
func (r *GormInventoryRepository) ReleaseItem(ctx context.Context, itemID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND status = ?", itemID, models.ItemOnLoan).
		Updates(map[string]interface{}{
			"status":     models.ItemAvailable,
			"updated_at": time.Now(),
		})
	return res.RowsAffected == 1, res.Error
}

// SetItemStatus applies an administrative state change
func (r *GormInventoryRepository) SetItemStatus(ctx context.Context, itemID uint, status models.ItemStatus) error {
	return r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// RecountAvailable rewrites the document's available_items from the
// live item states, so the counter can never drift under concurrent
// partial failures.
func (r *GormInventoryRepository) RecountAvailable(ctx context.Context, documentID uint) error {
	return r.db.WithContext(ctx).Exec(
		"UPDATE documents SET available_items = (SELECT COUNT(*) FROM items WHERE document_id = ? AND status = ?), total_items = (SELECT COUNT(*) FROM items WHERE document_id = ?) WHERE id = ?",
		documentID, models.ItemAvailable, documentID, documentID,
	).Error
}

// CountExhaustedDocuments returns how many documents currently have no
// available copy (for the circulation dashboard)
func (r *GormInventoryRepository) CountExhaustedDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("total_items > 0 AND available_items = 0").
		Count(&count).Error
	return count, err
}
