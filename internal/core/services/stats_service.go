package services

import (
	"context"
	"time"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/adapters/persistence/repositories"
)

// ============================================================
// Stats Service
// ============================================================

// CirculationStats is the staff dashboard snapshot
type CirculationStats struct {
	ActiveLoans        int64     `json:"active_loans"`
	OverdueLoans       int64     `json:"overdue_loans"`
	ReturnedLoans      int64     `json:"returned_loans"`
	ActiveSanctions    int64     `json:"active_sanctions"`
	ExhaustedDocuments int64     `json:"exhausted_documents"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// StatsService aggregates circulation counters for the staff dashboard
type StatsService struct {
	loanRepo     repositories.LoanRepository
	sanctionRepo repositories.SanctionRepository
	invRepo      repositories.InventoryRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	loanRepo repositories.LoanRepository,
	sanctionRepo repositories.SanctionRepository,
	invRepo repositories.InventoryRepository,
) *StatsService {
	return &StatsService{
		loanRepo:     loanRepo,
		sanctionRepo: sanctionRepo,
		invRepo:      invRepo,
	}
}

// Snapshot builds the current circulation statistics
func (s *StatsService) Snapshot(ctx context.Context) (*CirculationStats, error) {
	byStatus, err := s.loanRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	sanctions, err := s.sanctionRepo.CountActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	exhausted, err := s.invRepo.CountExhaustedDocuments(ctx)
	if err != nil {
		return nil, err
	}

	return &CirculationStats{
		ActiveLoans:        byStatus[models.LoanActive],
		OverdueLoans:       byStatus[models.LoanOverdue],
		ReturnedLoans:      byStatus[models.LoanReturned],
		ActiveSanctions:    sanctions,
		ExhaustedDocuments: exhausted,
		GeneratedAt:        time.Now(),
	}, nil
}
