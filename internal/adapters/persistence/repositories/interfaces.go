package repositories

import (
	"context"
	"time"

	"bibliocirc/internal/adapters/persistence/models"
)

// InventoryRepository defines catalog and item-state storage operations.
// Claim/Release are the only writers of the ON_LOAN predicate and are
// implemented as single conditional updates, never read-then-write.
type InventoryRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id uint) (*models.Document, error)
	ListDocuments(ctx context.Context, search string, offset, limit int) ([]models.Document, int64, error)
	DeleteDocument(ctx context.Context, id uint) error

	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id uint) (*models.Item, error)
	ListItemsByDocument(ctx context.Context, documentID uint) ([]models.Item, error)
	CountItems(ctx context.Context, documentID uint) (int64, error)

	// ClaimAvailableItem atomically flips one AVAILABLE item of the
	// document to ON_LOAN and returns its id, 0 when none is left.
	ClaimAvailableItem(ctx context.Context, documentID uint) (uint, error)
	// ClaimItem performs the same flip on one specific item.
	ClaimItem(ctx context.Context, itemID uint) (bool, error)
	// ReleaseItem flips ON_LOAN back to AVAILABLE. Releasing an item
	// that is already AVAILABLE reports false and changes nothing.
	ReleaseItem(ctx context.Context, itemID uint) (bool, error)
	// SetItemStatus is the administrative transition (MAINTENANCE, LOST,
	// back to AVAILABLE).
	SetItemStatus(ctx context.Context, itemID uint, status models.ItemStatus) error
	// RecountAvailable rewrites the document's available counter from
	// the live item states.
	RecountAvailable(ctx context.Context, documentID uint) error

	CountExhaustedDocuments(ctx context.Context) (int64, error)
}

// LoanRepository defines loan storage operations
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	ListByPatron(ctx context.Context, patronID uint, outstandingOnly bool, offset, limit int) ([]models.Loan, int64, error)

	// FinishLoan transitions ACTIVE/OVERDUE to RETURNED as one
	// conditional update; false means the loan was not outstanding.
	FinishLoan(ctx context.Context, loanID uint, returnedAt time.Time) (bool, error)
	// UpdateDue pushes the due date forward while the loan is
	// outstanding, optionally flipping OVERDUE back to ACTIVE.
	UpdateDue(ctx context.Context, loanID uint, due time.Time, status models.LoanStatus) (bool, error)

	ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]uint, error)
	// MarkOverdue flips one ACTIVE loan past its due date to OVERDUE;
	// false means another sweep got there first or the loan moved on.
	MarkOverdue(ctx context.Context, loanID uint, now time.Time) (bool, error)

	CountByStatus(ctx context.Context) (map[models.LoanStatus]int64, error)
}

// ReservationRepository defines reservation storage operations
type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	HasActive(ctx context.Context, patronID, documentID uint) (bool, error)
	ListByPatron(ctx context.Context, patronID uint, activeOnly bool, offset, limit int) ([]models.Reservation, int64, error)

	// Transition moves an ACTIVE reservation to a terminal state as one
	// conditional update; false means it was already terminal.
	Transition(ctx context.Context, id uint, to models.ReservationStatus) (bool, error)

	ListExpiryCandidates(ctx context.Context, now time.Time, limit int) ([]uint, error)
	// MarkExpired flips one ACTIVE reservation whose pickup date has
	// passed to EXPIRED; false means nothing changed.
	MarkExpired(ctx context.Context, id uint, now time.Time) (bool, error)
}

// SanctionRepository defines sanction storage operations
type SanctionRepository interface {
	Create(ctx context.Context, sanction *models.Sanction) error
	ListByPatron(ctx context.Context, patronID uint) ([]models.Sanction, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
}

// PatronRepository defines the slice of the patron directory the
// circulation engine touches
type PatronRepository interface {
	Create(ctx context.Context, patron *models.Patron) error
	GetByID(ctx context.Context, id uint) (*models.Patron, error)
	GetByCardNo(ctx context.Context, cardNo string) (*models.Patron, error)
	ExistsByCardNo(ctx context.Context, cardNo string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]models.Patron, int64, error)
	// SetSuspendedUntil writes the suspension window as a single update
	SetSuspendedUntil(ctx context.Context, patronID uint, until time.Time) error
}
