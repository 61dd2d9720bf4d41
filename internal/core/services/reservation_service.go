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
// Reservation Service
// ============================================================

// ReservationService drives the reservation state machine. Reservations
// are claims on a document for a future date; they never touch the item
// ledger or the availability counter.
type ReservationService struct {
	resRepo    repositories.ReservationRepository
	patronRepo repositories.PatronRepository
	inventory  *InventoryService
	emitter    EventEmitter
	sweepBatch int
}

// NewReservationService creates a new reservation service
func NewReservationService(
	resRepo repositories.ReservationRepository,
	patronRepo repositories.PatronRepository,
	inventory *InventoryService,
	emitter EventEmitter,
	sweepBatch int,
) *ReservationService {
	if sweepBatch < 1 {
		sweepBatch = 100
	}
	return &ReservationService{
		resRepo:    resRepo,
		patronRepo: patronRepo,
		inventory:  inventory,
		emitter:    emitter,
		sweepBatch: sweepBatch,
	}
}

// CreateReservationInput for placing a reservation
type CreateReservationInput struct {
	PatronID    uint      `json:"patron_id" validate:"required"`
	DocumentID  uint      `json:"document_id" validate:"required"`
	ReservedFor time.Time `json:"reserved_for" validate:"required"`
}

// CreateReservation places a claim on a document for a pickup date. A
// patron can hold at most one ACTIVE reservation per document.
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	if _, err := s.patronRepo.GetByID(ctx, input.PatronID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatronNotFound
		}
		return nil, err
	}
	if _, err := s.inventory.GetDocument(ctx, input.DocumentID); err != nil {
		return nil, err
	}

	exists, err := s.resRepo.HasActive(ctx, input.PatronID, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateReservation
	}

	res := &models.Reservation{
		DocumentID:  input.DocumentID,
		PatronID:    input.PatronID,
		ReservedFor: input.ReservedFor,
		Status:      models.ReservationActive,
	}
	if err := s.resRepo.Create(ctx, res); err != nil {
		return nil, err
	}

	log.Printf("📚 Reservation %d placed: patron %d, document %d, for %s", res.ID, res.PatronID, res.DocumentID, res.ReservedFor.Format(time.RFC3339))
	s.emitter.Emit(domain.TopicReservationCreated, s.reservationEvent(res))
	return res, nil
}

// GetReservation returns one reservation with its document
func (s *ReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	res, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListPatronReservations returns a patron's reservations
func (s *ReservationService) ListPatronReservations(ctx context.Context, patronID uint, activeOnly bool, offset, limit int) ([]models.Reservation, int64, error) {
	return s.resRepo.ListByPatron(ctx, patronID, activeOnly, offset, limit)
}

// CancelReservation moves an ACTIVE reservation to CANCELLED
func (s *ReservationService) CancelReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationCancelled, domain.TopicReservationCancelled)
}

// CompleteReservation moves an ACTIVE reservation to COMPLETED, used
// when the patron shows up and takes the loan
func (s *ReservationService) CompleteReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationCompleted, domain.TopicReservationCompleted)
}

func (s *ReservationService) transition(ctx context.Context, id uint, to models.ReservationStatus, topic string) (*models.Reservation, error) {
	res, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.resRepo.Transition(ctx, id, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrReservationNotActive
	}

	res.Status = to
	log.Printf("✅ Reservation %d -> %s", id, to)
	s.emitter.Emit(topic, s.reservationEvent(res))
	return res, nil
}

// ExpireStaleReservations flips every ACTIVE reservation whose pickup
// date has passed to EXPIRED and emits one reservation.expired event
// per flip. Idempotent under overlapping sweeps.
func (s *ReservationService) ExpireStaleReservations(ctx context.Context) (int, int, error) {
	now := time.Now()
	var expired, failed int

	for {
		select {
		case <-ctx.Done():
			return expired, failed, ctx.Err()
		default:
		}

		ids, err := s.resRepo.ListExpiryCandidates(ctx, now, s.sweepBatch)
		if err != nil {
			return expired, failed, err
		}
		if len(ids) == 0 {
			break
		}

		progress := false
		for _, id := range ids {
			changed, err := s.resRepo.MarkExpired(ctx, id, now)
			if err != nil {
				failed++
				log.Printf("❌ Expiry flip for reservation %d: %v", id, err)
				continue
			}
			progress = true
			if !changed {
				continue
			}
			expired++

			if res, err := s.resRepo.GetByID(ctx, id); err == nil {
				s.emitter.Emit(domain.TopicReservationExpired, s.reservationEvent(res))
			}
		}
		if !progress || len(ids) < s.sweepBatch {
			break
		}
	}

	if expired > 0 || failed > 0 {
		log.Printf("⏰ Reservation sweep: %d expired, %d failed", expired, failed)
	}
	return expired, failed, nil
}

func (s *ReservationService) reservationEvent(res *models.Reservation) domain.ReservationEvent {
	return domain.ReservationEvent{
		ReservationID: res.ID,
		DocumentID:    res.DocumentID,
		PatronID:      res.PatronID,
		ReservedFor:   res.ReservedFor,
	}
}
