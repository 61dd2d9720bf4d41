package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/adapters/persistence/repositories"
	"bibliocirc/internal/core/domain"
)

// ============================================================
// Sanction Service
// ============================================================

// SanctionService converts late returns into suspension windows. The
// window length is daysLate times the configured multiplier, never less
// than one day.
type SanctionService struct {
	sanctionRepo repositories.SanctionRepository
	patronRepo   repositories.PatronRepository
	emitter      EventEmitter
	multiplier   int
}

// NewSanctionService creates a new sanction service
func NewSanctionService(
	sanctionRepo repositories.SanctionRepository,
	patronRepo repositories.PatronRepository,
	emitter EventEmitter,
	multiplier int,
) *SanctionService {
	if multiplier < 1 {
		multiplier = 1
	}
	return &SanctionService{
		sanctionRepo: sanctionRepo,
		patronRepo:   patronRepo,
		emitter:      emitter,
		multiplier:   multiplier,
	}
}

// SanctionDays returns the suspension length for a given lateness
func (s *SanctionService) SanctionDays(daysLate int) int {
	days := daysLate * s.multiplier
	if days < 1 {
		days = 1
	}
	return days
}

// Apply records a sanction for a late return and extends the patron's
// suspension window to its end.
func (s *SanctionService) Apply(ctx context.Context, patronID, loanID uint, daysLate int, appliedAt time.Time) (*models.Sanction, error) {
	days := s.SanctionDays(daysLate)
	endsAt := appliedAt.Add(time.Duration(days) * 24 * time.Hour)

	sanction := &models.Sanction{
		PatronID: patronID,
		LoanID:   loanID,
		Reason:   fmt.Sprintf("returned %d day(s) late", daysLate),
		DaysLate: daysLate,
		StartsAt: appliedAt,
		EndsAt:   endsAt,
		Status:   models.SanctionActive,
	}
	if err := s.sanctionRepo.Create(ctx, sanction); err != nil {
		return nil, err
	}

	if err := s.patronRepo.SetSuspendedUntil(ctx, patronID, endsAt); err != nil {
		return nil, err
	}

	log.Printf("⛔ Patron %d sanctioned for %d day(s) (loan %d, %d late)", patronID, days, loanID, daysLate)
	s.emitter.Emit(domain.TopicPatronSanctioned, domain.SanctionEvent{
		SanctionID:   sanction.ID,
		PatronID:     patronID,
		LoanID:       loanID,
		DaysLate:     daysLate,
		SanctionDays: days,
		EndsAt:       endsAt,
	})
	return sanction, nil
}

// History returns a patron's sanction records, newest first
func (s *SanctionService) History(ctx context.Context, patronID uint) ([]models.Sanction, error) {
	return s.sanctionRepo.ListByPatron(ctx, patronID)
}
