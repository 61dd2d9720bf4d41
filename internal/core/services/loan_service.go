package services

import (
	"context"
	"errors"
	"log"
	"time"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/adapters/persistence/repositories"
	"bibliocirc/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Loan Service
// ============================================================

// LoanPolicy carries the due-date rules for the two loan kinds
type LoanPolicy struct {
	// HomeLoanDays is the length of a take-home loan
	HomeLoanDays int
	// RoomLoanHours is the length of an in-branch loan
	RoomLoanHours int
	// BranchCloseHour clamps in-branch due times to the branch closing
	// hour of the same day; 0 disables the clamp
	BranchCloseHour int
}

// LoanService drives the loan state machine. It claims copies through
// the inventory ledger, applies the due-date policy, and compensates
// the claim when loan creation fails partway.
type LoanService struct {
	loanRepo   repositories.LoanRepository
	patronRepo repositories.PatronRepository
	inventory  *InventoryService
	sanctions  *SanctionService
	emitter    EventEmitter
	policy     LoanPolicy
	sweepBatch int
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	patronRepo repositories.PatronRepository,
	inventory *InventoryService,
	sanctions *SanctionService,
	emitter EventEmitter,
	policy LoanPolicy,
	sweepBatch int,
) *LoanService {
	if sweepBatch < 1 {
		sweepBatch = 100
	}
	return &LoanService{
		loanRepo:   loanRepo,
		patronRepo: patronRepo,
		inventory:  inventory,
		sanctions:  sanctions,
		emitter:    emitter,
		policy:     policy,
		sweepBatch: sweepBatch,
	}
}

// CreateLoanInput for loan creation. Either DocumentID (any available
// copy) or ItemID (one named copy) must be set.
type CreateLoanInput struct {
	PatronID   uint            `json:"patron_id" validate:"required"`
	DocumentID uint            `json:"document_id" validate:"required_without=ItemID"`
	ItemID     uint            `json:"item_id"`
	Kind       models.LoanKind `json:"kind" validate:"omitempty,oneof=HOME IN_BRANCH"`
}

// DueAt computes the due time for a loan of the given kind placed at
// placedAt.
func (p LoanPolicy) DueAt(kind models.LoanKind, placedAt time.Time) time.Time {
	if kind == models.LoanKindInBranch {
		due := placedAt.Add(time.Duration(p.RoomLoanHours) * time.Hour)
		if p.BranchCloseHour > 0 {
			closing := time.Date(placedAt.Year(), placedAt.Month(), placedAt.Day(),
				p.BranchCloseHour, 0, 0, 0, placedAt.Location())
			if due.After(closing) && closing.After(placedAt) {
				due = closing
			}
		}
		return due
	}
	return placedAt.AddDate(0, 0, p.HomeLoanDays)
}

// CreateLoan claims a copy and opens a loan on it. When the loan row
// cannot be written the claimed copy is handed back, so a failed
// request never strands an item in ON_LOAN.
func (s *LoanService) CreateLoan(ctx context.Context, input CreateLoanInput) (*models.Loan, error) {
	now := time.Now()

	patron, err := s.patronRepo.GetByID(ctx, input.PatronID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatronNotFound
		}
		return nil, err
	}
	if patron.SuspendedAt(now) {
		return nil, domain.ErrPatronSuspended
	}

	kind := input.Kind
	if kind == "" {
		kind = models.LoanKindHome
	}

	var itemID uint
	if input.ItemID != 0 {
		item, err := s.inventory.ReserveSpecificItem(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		itemID = item.ID
	} else {
		itemID, err = s.inventory.ReserveItem(ctx, input.DocumentID)
		if err != nil {
			return nil, err
		}
	}

	loan := &models.Loan{
		ItemID:   itemID,
		PatronID: input.PatronID,
		Kind:     kind,
		Status:   models.LoanActive,
		PlacedAt: now,
		DueAt:    s.policy.DueAt(kind, now),
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		if relErr := s.inventory.ReleaseItem(ctx, itemID); relErr != nil {
			log.Printf("❌ Release of item %d after failed loan create: %v", itemID, relErr)
		}
		return nil, err
	}

	log.Printf("✅ Loan %d created: patron %d, item %d, due %s", loan.ID, loan.PatronID, loan.ItemID, loan.DueAt.Format(time.RFC3339))
	s.emitter.Emit(domain.TopicLoanCreated, s.loanEvent(ctx, loan, 0))
	return loan, nil
}

// GetLoan returns one loan with its item and patron
func (s *LoanService) GetLoan(ctx context.Context, loanID uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// ListPatronLoans returns a patron's loans, optionally only the
// outstanding ones
func (s *LoanService) ListPatronLoans(ctx context.Context, patronID uint, outstandingOnly bool, offset, limit int) ([]models.Loan, int64, error) {
	return s.loanRepo.ListByPatron(ctx, patronID, outstandingOnly, offset, limit)
}

// ReturnLoan closes an outstanding loan, shelves the copy again and
// applies a sanction when the return is late. Returning the same loan
// twice fails on the second call.
func (s *LoanService) ReturnLoan(ctx context.Context, loanID uint, returnedAt time.Time) (*models.Loan, error) {
	if returnedAt.IsZero() {
		returnedAt = time.Now()
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	ok, err := s.loanRepo.FinishLoan(ctx, loanID, returnedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrLoanNotActive
	}

	if err := s.inventory.ReleaseItem(ctx, loan.ItemID); err != nil {
		return nil, err
	}

	daysLate := loan.DaysLate(returnedAt)
	if daysLate > 0 {
		if _, err := s.sanctions.Apply(ctx, loan.PatronID, loan.ID, daysLate, returnedAt); err != nil {
			return nil, err
		}
	}

	loan.Status = models.LoanReturned
	loan.ReturnedAt = &returnedAt

	log.Printf("✅ Loan %d returned by patron %d (%d day(s) late)", loan.ID, loan.PatronID, daysLate)
	s.emitter.Emit(domain.TopicLoanReturned, s.loanEvent(ctx, loan, daysLate))
	return loan, nil
}

// ExtendLoan pushes the due date of an outstanding loan forward by
// extraDays. Extending an OVERDUE loan past now flips it back to
// ACTIVE.
func (s *LoanService) ExtendLoan(ctx context.Context, loanID uint, extraDays int) (*models.Loan, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.Status.Outstanding() {
		return nil, domain.ErrLoanNotActive
	}

	newDue := loan.DueAt.AddDate(0, 0, extraDays)
	status := loan.Status
	if status == models.LoanOverdue && newDue.After(time.Now()) {
		status = models.LoanActive
	}

	ok, err := s.loanRepo.UpdateDue(ctx, loanID, newDue, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The loan left the outstanding states between read and update
		return nil, domain.ErrLoanNotActive
	}

	loan.DueAt = newDue
	loan.Status = status
	log.Printf("✅ Loan %d extended to %s", loanID, newDue.Format(time.RFC3339))
	return loan, nil
}

// MarkOverdueLoans flips every ACTIVE loan past its due date to OVERDUE
// and emits one loan.overdue event per flip. Each flip is an individual
// test-and-set, so overlapping sweeps mark and notify each loan exactly
// once. Returns the number of loans flipped and the number of failures.
func (s *LoanService) MarkOverdueLoans(ctx context.Context) (int, int, error) {
	now := time.Now()
	var flipped, failed int

	for {
		select {
		case <-ctx.Done():
			return flipped, failed, ctx.Err()
		default:
		}

		ids, err := s.loanRepo.ListOverdueCandidates(ctx, now, s.sweepBatch)
		if err != nil {
			return flipped, failed, err
		}
		if len(ids) == 0 {
			break
		}

		progress := false
		for _, id := range ids {
			changed, err := s.loanRepo.MarkOverdue(ctx, id, now)
			if err != nil {
				failed++
				log.Printf("❌ Overdue flip for loan %d: %v", id, err)
				continue
			}
			if !changed {
				// Another sweep got there first, or the loan was returned
				progress = true
				continue
			}
			progress = true
			flipped++

			if loan, err := s.loanRepo.GetByID(ctx, id); err == nil {
				s.emitter.Emit(domain.TopicLoanOverdue, s.loanEvent(ctx, loan, loan.DaysLate(now)))
			}
		}
		if !progress || len(ids) < s.sweepBatch {
			break
		}
	}

	if flipped > 0 || failed > 0 {
		log.Printf("⏰ Overdue sweep: %d marked, %d failed", flipped, failed)
	}
	return flipped, failed, nil
}

// loanEvent builds the event payload, pulling in the document fields
// when the loan's relations are loaded or loadable
func (s *LoanService) loanEvent(ctx context.Context, loan *models.Loan, daysLate int) domain.LoanEvent {
	ev := domain.LoanEvent{
		LoanID:     loan.ID,
		ItemID:     loan.ItemID,
		PatronID:   loan.PatronID,
		Kind:       string(loan.Kind),
		DueAt:      loan.DueAt,
		ReturnedAt: loan.ReturnedAt,
		DaysLate:   daysLate,
	}

	item := loan.Item
	if item == nil {
		item, _ = s.inventory.GetItem(ctx, loan.ItemID)
	}
	if item != nil {
		ev.DocumentID = item.DocumentID
		if item.Document != nil {
			ev.DocumentTitle = item.Document.Title
		} else if doc, err := s.inventory.GetDocument(ctx, item.DocumentID); err == nil {
			ev.DocumentTitle = doc.Title
		}
	}
	return ev
}
