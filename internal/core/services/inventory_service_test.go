package services

import (
	"context"
	"testing"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"
)

func TestCreateDocument(t *testing.T) {
	ctx := context.Background()

	var itemsCreated int
	recounted := false
	invRepo := &fakeInventoryRepo{
		CreateDocumentFn: func(_ context.Context, doc *models.Document) error {
			doc.ID = 3
			return nil
		},
		CreateItemFn: func(_ context.Context, item *models.Item) error {
			itemsCreated++
			assert.Equal(t, uint(3), item.DocumentID)
			assert.Equal(t, models.ItemAvailable, item.Status)
			return nil
		},
		RecountAvailableFn: func(_ context.Context, documentID uint) error {
			recounted = true
			return nil
		},
	}
	svc := NewInventoryService(invRepo)

	_, err := svc.CreateDocument(ctx, CreateDocumentInput{Title: "Dune", InitialItems: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, itemsCreated)
	assert.True(t, recounted)
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("document with items cannot be deleted", func(t *testing.T) {
		invRepo := &fakeInventoryRepo{
			CountItemsFn: func(_ context.Context, _ uint) (int64, error) {
				return 2, nil
			},
		}
		svc := NewInventoryService(invRepo)

		err := svc.DeleteDocument(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrDocumentHasItems)
	})

	t.Run("unknown document yields ErrDocumentNotFound", func(t *testing.T) {
		invRepo := &fakeInventoryRepo{
			GetDocumentByIDFn: func(_ context.Context, _ uint) (*models.Document, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewInventoryService(invRepo)

		err := svc.DeleteDocument(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})
}

func TestReserveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the claimed copy and recounts", func(t *testing.T) {
		recounted := false
		invRepo := &fakeInventoryRepo{
			ClaimAvailableItemFn: func(_ context.Context, documentID uint) (uint, error) {
				assert.Equal(t, uint(3), documentID)
				return 42, nil
			},
			RecountAvailableFn: func(_ context.Context, _ uint) error {
				recounted = true
				return nil
			},
		}
		svc := NewInventoryService(invRepo)

		itemID, err := svc.ReserveItem(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, uint(42), itemID)
		assert.True(t, recounted)
	})

	t.Run("no copy left yields ErrNoCopyAvailable", func(t *testing.T) {
		svc := NewInventoryService(&fakeInventoryRepo{})

		_, err := svc.ReserveItem(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrNoCopyAvailable)
	})

	t.Run("unknown document yields ErrDocumentNotFound", func(t *testing.T) {
		invRepo := &fakeInventoryRepo{
			GetDocumentByIDFn: func(_ context.Context, _ uint) (*models.Document, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewInventoryService(invRepo)

		_, err := svc.ReserveItem(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})
}

func TestSetItemState(t *testing.T) {
	ctx := context.Background()

	t.Run("applies an administrative status and recounts", func(t *testing.T) {
		var gotStatus models.ItemStatus
		recounted := false
		invRepo := &fakeInventoryRepo{
			SetItemStatusFn: func(_ context.Context, _ uint, status models.ItemStatus) error {
				gotStatus = status
				return nil
			},
			RecountAvailableFn: func(_ context.Context, _ uint) error {
				recounted = true
				return nil
			},
		}
		svc := NewInventoryService(invRepo)

		item, err := svc.SetItemState(ctx, 42, models.ItemMaintenance)
		require.NoError(t, err)
		assert.Equal(t, models.ItemMaintenance, gotStatus)
		assert.Equal(t, models.ItemMaintenance, item.Status)
		assert.True(t, recounted)
	})

	t.Run("ON_LOAN is not settable administratively", func(t *testing.T) {
		touched := false
		invRepo := &fakeInventoryRepo{
			SetItemStatusFn: func(_ context.Context, _ uint, _ models.ItemStatus) error {
				touched = true
				return nil
			},
		}
		svc := NewInventoryService(invRepo)

		_, err := svc.SetItemState(ctx, 42, models.ItemOnLoan)
		assert.ErrorIs(t, err, domain.ErrInvalidItemStatus)
		assert.False(t, touched)

		_, err = svc.SetItemState(ctx, 42, models.ItemReserved)
		assert.ErrorIs(t, err, domain.ErrInvalidItemStatus)
	})
}

func TestReleaseItemIsRepeatable(t *testing.T) {
	ctx := context.Background()

	// Releasing an already-shelved copy must be a harmless no-op
	invRepo := &fakeInventoryRepo{
		ReleaseItemFn: func(_ context.Context, _ uint) (bool, error) {
			return false, nil
		},
	}
	svc := NewInventoryService(invRepo)

	err := svc.ReleaseItem(ctx, 42)
	assert.NoError(t, err)
}
