package services

import (
	"context"
	"sync"
	"time"

	"bibliocirc/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// Function-field fakes so each test wires only the calls it expects.
// Unset fields return zero values.

type captureEmitter struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Topic   string
	Payload interface{}
}

func (e *captureEmitter) Emit(topic string, payload interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, capturedEvent{Topic: topic, Payload: payload})
}

func (e *captureEmitter) Topics() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	topics := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		topics = append(topics, ev.Topic)
	}
	return topics
}

func (e *captureEmitter) CountTopic(topic string) int {
	n := 0
	for _, t := range e.Topics() {
		if t == topic {
			n++
		}
	}
	return n
}

type fakeInventoryRepo struct {
	CreateDocumentFn          func(ctx context.Context, doc *models.Document) error
	GetDocumentByIDFn         func(ctx context.Context, id uint) (*models.Document, error)
	ListDocumentsFn           func(ctx context.Context, search string, offset, limit int) ([]models.Document, int64, error)
	DeleteDocumentFn          func(ctx context.Context, id uint) error
	CreateItemFn              func(ctx context.Context, item *models.Item) error
	GetItemByIDFn             func(ctx context.Context, id uint) (*models.Item, error)
	ListItemsByDocumentFn     func(ctx context.Context, documentID uint) ([]models.Item, error)
	CountItemsFn              func(ctx context.Context, documentID uint) (int64, error)
	ClaimAvailableItemFn      func(ctx context.Context, documentID uint) (uint, error)
	ClaimItemFn               func(ctx context.Context, itemID uint) (bool, error)
	ReleaseItemFn             func(ctx context.Context, itemID uint) (bool, error)
	SetItemStatusFn           func(ctx context.Context, itemID uint, status models.ItemStatus) error
	RecountAvailableFn        func(ctx context.Context, documentID uint) error
	CountExhaustedDocumentsFn func(ctx context.Context) (int64, error)
}

func (f *fakeInventoryRepo) CreateDocument(ctx context.Context, doc *models.Document) error {
	if f.CreateDocumentFn != nil {
		return f.CreateDocumentFn(ctx, doc)
	}
	return nil
}

func (f *fakeInventoryRepo) GetDocumentByID(ctx context.Context, id uint) (*models.Document, error) {
	if f.GetDocumentByIDFn != nil {
		return f.GetDocumentByIDFn(ctx, id)
	}
	return &models.Document{ID: id}, nil
}

func (f *fakeInventoryRepo) ListDocuments(ctx context.Context, search string, offset, limit int) ([]models.Document, int64, error) {
	if f.ListDocumentsFn != nil {
		return f.ListDocumentsFn(ctx, search, offset, limit)
	}
	return nil, 0, nil
}

func (f *fakeInventoryRepo) DeleteDocument(ctx context.Context, id uint) error {
	if f.DeleteDocumentFn != nil {
		return f.DeleteDocumentFn(ctx, id)
	}
	return nil
}

func (f *fakeInventoryRepo) CreateItem(ctx context.Context, item *models.Item) error {
	if f.CreateItemFn != nil {
		return f.CreateItemFn(ctx, item)
	}
	return nil
}

func (f *fakeInventoryRepo) GetItemByID(ctx context.Context, id uint) (*models.Item, error) {
	if f.GetItemByIDFn != nil {
		return f.GetItemByIDFn(ctx, id)
	}
	return &models.Item{ID: id, DocumentID: 1, Status: models.ItemAvailable}, nil
}

func (f *fakeInventoryRepo) ListItemsByDocument(ctx context.Context, documentID uint) ([]models.Item, error) {
	if f.ListItemsByDocumentFn != nil {
		return f.ListItemsByDocumentFn(ctx, documentID)
	}
	return nil, nil
}

func (f *fakeInventoryRepo) CountItems(ctx context.Context, documentID uint) (int64, error) {
	if f.CountItemsFn != nil {
		return f.CountItemsFn(ctx, documentID)
	}
	return 0, nil
}

func (f *fakeInventoryRepo) ClaimAvailableItem(ctx context.Context, documentID uint) (uint, error) {
	if f.ClaimAvailableItemFn != nil {
		return f.ClaimAvailableItemFn(ctx, documentID)
	}
	return 0, nil
}

func (f *fakeInventoryRepo) ClaimItem(ctx context.Context, itemID uint) (bool, error) {
	if f.ClaimItemFn != nil {
		return f.ClaimItemFn(ctx, itemID)
	}
	return false, nil
}

func (f *fakeInventoryRepo) ReleaseItem(ctx context.Context, itemID uint) (bool, error) {
	if f.ReleaseItemFn != nil {
		return f.ReleaseItemFn(ctx, itemID)
	}
	return true, nil
}

func (f *fakeInventoryRepo) SetItemStatus(ctx context.Context, itemID uint, status models.ItemStatus) error {
	if f.SetItemStatusFn != nil {
		return f.SetItemStatusFn(ctx, itemID, status)
	}
	return nil
}

func (f *fakeInventoryRepo) RecountAvailable(ctx context.Context, documentID uint) error {
	if f.RecountAvailableFn != nil {
		return f.RecountAvailableFn(ctx, documentID)
	}
	return nil
}

func (f *fakeInventoryRepo) CountExhaustedDocuments(ctx context.Context) (int64, error) {
	if f.CountExhaustedDocumentsFn != nil {
		return f.CountExhaustedDocumentsFn(ctx)
	}
	return 0, nil
}

type fakeLoanRepo struct {
	CreateFn                func(ctx context.Context, loan *models.Loan) error
	GetByIDFn               func(ctx context.Context, id uint) (*models.Loan, error)
	ListByPatronFn          func(ctx context.Context, patronID uint, outstandingOnly bool, offset, limit int) ([]models.Loan, int64, error)
	FinishLoanFn            func(ctx context.Context, loanID uint, returnedAt time.Time) (bool, error)
	UpdateDueFn             func(ctx context.Context, loanID uint, due time.Time, status models.LoanStatus) (bool, error)
	ListOverdueCandidatesFn func(ctx context.Context, now time.Time, limit int) ([]uint, error)
	MarkOverdueFn           func(ctx context.Context, loanID uint, now time.Time) (bool, error)
	CountByStatusFn         func(ctx context.Context) (map[models.LoanStatus]int64, error)
}

func (f *fakeLoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, loan)
	}
	return nil
}

func (f *fakeLoanRepo) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoanRepo) ListByPatron(ctx context.Context, patronID uint, outstandingOnly bool, offset, limit int) ([]models.Loan, int64, error) {
	if f.ListByPatronFn != nil {
		return f.ListByPatronFn(ctx, patronID, outstandingOnly, offset, limit)
	}
	return nil, 0, nil
}

func (f *fakeLoanRepo) FinishLoan(ctx context.Context, loanID uint, returnedAt time.Time) (bool, error) {
	if f.FinishLoanFn != nil {
		return f.FinishLoanFn(ctx, loanID, returnedAt)
	}
	return false, nil
}

func (f *fakeLoanRepo) UpdateDue(ctx context.Context, loanID uint, due time.Time, status models.LoanStatus) (bool, error) {
	if f.UpdateDueFn != nil {
		return f.UpdateDueFn(ctx, loanID, due, status)
	}
	return false, nil
}

func (f *fakeLoanRepo) ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	if f.ListOverdueCandidatesFn != nil {
		return f.ListOverdueCandidatesFn(ctx, now, limit)
	}
	return nil, nil
}

func (f *fakeLoanRepo) MarkOverdue(ctx context.Context, loanID uint, now time.Time) (bool, error) {
	if f.MarkOverdueFn != nil {
		return f.MarkOverdueFn(ctx, loanID, now)
	}
	return false, nil
}

func (f *fakeLoanRepo) CountByStatus(ctx context.Context) (map[models.LoanStatus]int64, error) {
	if f.CountByStatusFn != nil {
		return f.CountByStatusFn(ctx)
	}
	return map[models.LoanStatus]int64{}, nil
}

type fakeReservationRepo struct {
	CreateFn               func(ctx context.Context, res *models.Reservation) error
	GetByIDFn              func(ctx context.Context, id uint) (*models.Reservation, error)
	HasActiveFn            func(ctx context.Context, patronID, documentID uint) (bool, error)
	ListByPatronFn         func(ctx context.Context, patronID uint, activeOnly bool, offset, limit int) ([]models.Reservation, int64, error)
	TransitionFn           func(ctx context.Context, id uint, to models.ReservationStatus) (bool, error)
	ListExpiryCandidatesFn func(ctx context.Context, now time.Time, limit int) ([]uint, error)
	MarkExpiredFn          func(ctx context.Context, id uint, now time.Time) (bool, error)
}

func (f *fakeReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, res)
	}
	return nil
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReservationRepo) HasActive(ctx context.Context, patronID, documentID uint) (bool, error) {
	if f.HasActiveFn != nil {
		return f.HasActiveFn(ctx, patronID, documentID)
	}
	return false, nil
}

func (f *fakeReservationRepo) ListByPatron(ctx context.Context, patronID uint, activeOnly bool, offset, limit int) ([]models.Reservation, int64, error) {
	if f.ListByPatronFn != nil {
		return f.ListByPatronFn(ctx, patronID, activeOnly, offset, limit)
	}
	return nil, 0, nil
}

func (f *fakeReservationRepo) Transition(ctx context.Context, id uint, to models.ReservationStatus) (bool, error) {
	if f.TransitionFn != nil {
		return f.TransitionFn(ctx, id, to)
	}
	return false, nil
}

func (f *fakeReservationRepo) ListExpiryCandidates(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	if f.ListExpiryCandidatesFn != nil {
		return f.ListExpiryCandidatesFn(ctx, now, limit)
	}
	return nil, nil
}

func (f *fakeReservationRepo) MarkExpired(ctx context.Context, id uint, now time.Time) (bool, error) {
	if f.MarkExpiredFn != nil {
		return f.MarkExpiredFn(ctx, id, now)
	}
	return false, nil
}

type fakeSanctionRepo struct {
	CreateFn       func(ctx context.Context, sanction *models.Sanction) error
	ListByPatronFn func(ctx context.Context, patronID uint) ([]models.Sanction, error)
	CountActiveFn  func(ctx context.Context, now time.Time) (int64, error)
}

func (f *fakeSanctionRepo) Create(ctx context.Context, sanction *models.Sanction) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, sanction)
	}
	return nil
}

func (f *fakeSanctionRepo) ListByPatron(ctx context.Context, patronID uint) ([]models.Sanction, error) {
	if f.ListByPatronFn != nil {
		return f.ListByPatronFn(ctx, patronID)
	}
	return nil, nil
}

func (f *fakeSanctionRepo) CountActive(ctx context.Context, now time.Time) (int64, error) {
	if f.CountActiveFn != nil {
		return f.CountActiveFn(ctx, now)
	}
	return 0, nil
}

type fakePatronRepo struct {
	CreateFn            func(ctx context.Context, patron *models.Patron) error
	GetByIDFn           func(ctx context.Context, id uint) (*models.Patron, error)
	GetByCardNoFn       func(ctx context.Context, cardNo string) (*models.Patron, error)
	ExistsByCardNoFn    func(ctx context.Context, cardNo string) (bool, error)
	ListFn              func(ctx context.Context, offset, limit int) ([]models.Patron, int64, error)
	SetSuspendedUntilFn func(ctx context.Context, patronID uint, until time.Time) error
}

func (f *fakePatronRepo) Create(ctx context.Context, patron *models.Patron) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, patron)
	}
	return nil
}

func (f *fakePatronRepo) GetByID(ctx context.Context, id uint) (*models.Patron, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return &models.Patron{ID: id, CardNo: "CARD", Role: "PATRON", IsActive: true}, nil
}

func (f *fakePatronRepo) GetByCardNo(ctx context.Context, cardNo string) (*models.Patron, error) {
	if f.GetByCardNoFn != nil {
		return f.GetByCardNoFn(ctx, cardNo)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePatronRepo) ExistsByCardNo(ctx context.Context, cardNo string) (bool, error) {
	if f.ExistsByCardNoFn != nil {
		return f.ExistsByCardNoFn(ctx, cardNo)
	}
	return false, nil
}

func (f *fakePatronRepo) List(ctx context.Context, offset, limit int) ([]models.Patron, int64, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (f *fakePatronRepo) SetSuspendedUntil(ctx context.Context, patronID uint, until time.Time) error {
	if f.SetSuspendedUntilFn != nil {
		return f.SetSuspendedUntilFn(ctx, patronID, until)
	}
	return nil
}
