package services

import (
	"context"
	"errors"
	"log"
	"time"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/adapters/persistence/repositories"
	"bibliocirc/internal/core/domain"
	"bibliocirc/internal/pkg/token"

	"gorm.io/gorm"
)

// ============================================================
// Patron Service
// ============================================================

// PatronService handles patron registration and access tokens. The
// circulation engine only needs card-based identity; credential
// management belongs to the identity provider in front of it.
type PatronService struct {
	patronRepo repositories.PatronRepository
	tokens     *token.Manager
}

// NewPatronService creates a new patron service
func NewPatronService(patronRepo repositories.PatronRepository, tokens *token.Manager) *PatronService {
	return &PatronService{
		patronRepo: patronRepo,
		tokens:     tokens,
	}
}

// RegisterPatronInput for patron registration
type RegisterPatronInput struct {
	CardNo   string `json:"card_no" validate:"required,min=4,max=20"`
	FullName string `json:"full_name" validate:"required,min=1,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,oneof=PATRON STAFF"`
}

// Register creates a patron record behind a unique card number
func (s *PatronService) Register(ctx context.Context, input RegisterPatronInput) (*models.Patron, error) {
	exists, err := s.patronRepo.ExistsByCardNo(ctx, input.CardNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicatePatron
	}

	role := input.Role
	if role == "" {
		role = "PATRON"
	}

	patron := &models.Patron{
		CardNo:   input.CardNo,
		FullName: input.FullName,
		Email:    input.Email,
		Role:     role,
		IsActive: true,
	}
	if err := s.patronRepo.Create(ctx, patron); err != nil {
		return nil, err
	}

	log.Printf("✅ Patron %d registered: %s", patron.ID, patron.CardNo)
	return patron, nil
}

// GetPatron returns one patron record
func (s *PatronService) GetPatron(ctx context.Context, id uint) (*models.Patron, error) {
	patron, err := s.patronRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatronNotFound
		}
		return nil, err
	}
	return patron, nil
}

// ListPatrons returns a page of the patron directory
func (s *PatronService) ListPatrons(ctx context.Context, offset, limit int) ([]models.Patron, int64, error) {
	return s.patronRepo.List(ctx, offset, limit)
}

// IssueToken exchanges a card number for an access token. Identity is
// established upstream; this endpoint only mints the circulation
// session.
func (s *PatronService) IssueToken(ctx context.Context, cardNo string) (string, *models.Patron, error) {
	patron, err := s.patronRepo.GetByCardNo(ctx, cardNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrPatronNotFound
		}
		return "", nil, err
	}

	tok, err := s.tokens.Generate(patron.ID, patron.CardNo, patron.Role)
	if err != nil {
		return "", nil, err
	}
	return tok, patron, nil
}

// SuspendedFor reports how much of the patron's suspension window
// remains at now, zero when not suspended
func (s *PatronService) SuspendedFor(patron *models.Patron, now time.Time) time.Duration {
	if patron.SuspendedUntil == nil || !patron.SuspendedUntil.After(now) {
		return 0
	}
	return patron.SuspendedUntil.Sub(now)
}
