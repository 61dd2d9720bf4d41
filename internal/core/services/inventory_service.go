package services

import (
	"context"
	"errors"
	"log"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/adapters/persistence/repositories"
	"bibliocirc/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Inventory Service (catalog + item ledger)
// ============================================================

// InventoryService owns the catalog and the item-state ledger. All
// AVAILABLE/ON_LOAN flips funnel through it so the per-document
// availability counter can be recomputed after every transition.
type InventoryService struct {
	invRepo repositories.InventoryRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(invRepo repositories.InventoryRepository) *InventoryService {
	return &InventoryService{invRepo: invRepo}
}

// CreateDocumentInput for catalog registration
type CreateDocumentInput struct {
	Title        string `json:"title" validate:"required,min=1,max=255"`
	Author       string `json:"author" validate:"max=255"`
	DocType      string `json:"doc_type" validate:"max=50"`
	Category     string `json:"category" validate:"max=100"`
	Edition      string `json:"edition" validate:"max=100"`
	Year         int    `json:"year" validate:"omitempty,min=0,max=2100"`
	InitialItems int    `json:"initial_items" validate:"min=0,max=500"`
	Location     string `json:"location" validate:"max=100"`
}

// CreateDocument registers a catalog record, optionally with a first
// batch of physical copies.
func (s *InventoryService) CreateDocument(ctx context.Context, input CreateDocumentInput) (*models.Document, error) {
	doc := &models.Document{
		Title:    input.Title,
		Author:   input.Author,
		DocType:  input.DocType,
		Category: input.Category,
		Edition:  input.Edition,
		Year:     input.Year,
	}
	if err := s.invRepo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	for i := 0; i < input.InitialItems; i++ {
		item := &models.Item{
			DocumentID: doc.ID,
			Location:   input.Location,
			Status:     models.ItemAvailable,
		}
		if err := s.invRepo.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	if input.InitialItems > 0 {
		if err := s.invRepo.RecountAvailable(ctx, doc.ID); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Document %d registered: %s (%d copies)", doc.ID, doc.Title, input.InitialItems)
	return s.GetDocument(ctx, doc.ID)
}

// GetDocument returns one catalog record
func (s *InventoryService) GetDocument(ctx context.Context, id uint) (*models.Document, error) {
	doc, err := s.invRepo.GetDocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns a page of the catalog, optionally filtered by a
// title/author search term
func (s *InventoryService) ListDocuments(ctx context.Context, search string, offset, limit int) ([]models.Document, int64, error) {
	return s.invRepo.ListDocuments(ctx, search, offset, limit)
}

// DeleteDocument removes a catalog record that has no items left
func (s *InventoryService) DeleteDocument(ctx context.Context, id uint) error {
	if _, err := s.GetDocument(ctx, id); err != nil {
		return err
	}

	count, err := s.invRepo.CountItems(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrDocumentHasItems
	}

	return s.invRepo.DeleteDocument(ctx, id)
}

// AddItem attaches one new physical copy to a document
func (s *InventoryService) AddItem(ctx context.Context, documentID uint, location string) (*models.Item, error) {
	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	item := &models.Item{
		DocumentID: documentID,
		Location:   location,
		Status:     models.ItemAvailable,
	}
	if err := s.invRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.invRepo.RecountAvailable(ctx, documentID); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns one physical copy
func (s *InventoryService) GetItem(ctx context.Context, itemID uint) (*models.Item, error) {
	item, err := s.invRepo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListItems returns every physical copy of a document
func (s *InventoryService) ListItems(ctx context.Context, documentID uint) ([]models.Item, error) {
	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.invRepo.ListItemsByDocument(ctx, documentID)
}

// ReserveItem claims one available copy of the document for a loan and
// returns its id. The claim is a single test-and-set in the store, so
// two concurrent callers can never walk away with the same copy.
func (s *InventoryService) ReserveItem(ctx context.Context, documentID uint) (uint, error) {
	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return 0, err
	}

	itemID, err := s.invRepo.ClaimAvailableItem(ctx, documentID)
	if err != nil {
		return 0, err
	}
	if itemID == 0 {
		return 0, domain.ErrNoCopyAvailable
	}

	if err := s.invRepo.RecountAvailable(ctx, documentID); err != nil {
		log.Printf("❌ Recount for document %d failed: %v", documentID, err)
	}
	return itemID, nil
}

// ReserveSpecificItem claims one named copy for a loan
func (s *InventoryService) ReserveSpecificItem(ctx context.Context, itemID uint) (*models.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	ok, err := s.invRepo.ClaimItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrItemNotLoanable
	}

	if err := s.invRepo.RecountAvailable(ctx, item.DocumentID); err != nil {
		log.Printf("❌ Recount for document %d failed: %v", item.DocumentID, err)
	}
	item.Status = models.ItemOnLoan
	return item, nil
}

// ReleaseItem hands a copy back to the shelf after a return. Releasing
// a copy that is already AVAILABLE is a no-op, which makes the caller's
// compensation path safe to repeat.
func (s *InventoryService) ReleaseItem(ctx context.Context, itemID uint) error {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	if _, err := s.invRepo.ReleaseItem(ctx, itemID); err != nil {
		return err
	}
	return s.invRepo.RecountAvailable(ctx, item.DocumentID)
}

// SetItemState applies an administrative transition (MAINTENANCE, LOST,
// back to AVAILABLE). ON_LOAN is not settable here; it is only reachable
// through the loan claim.
func (s *InventoryService) SetItemState(ctx context.Context, itemID uint, status models.ItemStatus) (*models.Item, error) {
	if !status.AdminSettable() {
		return nil, domain.ErrInvalidItemStatus
	}

	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.invRepo.SetItemStatus(ctx, itemID, status); err != nil {
		return nil, err
	}
	if err := s.invRepo.RecountAvailable(ctx, item.DocumentID); err != nil {
		return nil, err
	}

	log.Printf("🔧 Item %d set to %s", itemID, status)
	item.Status = status
	return item, nil
}
