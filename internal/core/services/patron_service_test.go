package services

import (
	"context"
	"testing"
	"time"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/core/domain"
	"bibliocirc/internal/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPatron(t *testing.T) {
	ctx := context.Background()
	tokens := token.NewManager("test-secret", time.Hour)

	t.Run("registers with default role", func(t *testing.T) {
		var created *models.Patron
		patronRepo := &fakePatronRepo{
			CreateFn: func(_ context.Context, p *models.Patron) error {
				p.ID = 4
				created = p
				return nil
			},
		}
		svc := NewPatronService(patronRepo, tokens)

		patron, err := svc.Register(ctx, RegisterPatronInput{CardNo: "CARD0004", FullName: "Ada"})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "PATRON", patron.Role)
		assert.True(t, patron.IsActive)
	})

	t.Run("duplicate card number is rejected", func(t *testing.T) {
		patronRepo := &fakePatronRepo{
			ExistsByCardNoFn: func(_ context.Context, _ string) (bool, error) {
				return true, nil
			},
		}
		svc := NewPatronService(patronRepo, tokens)

		_, err := svc.Register(ctx, RegisterPatronInput{CardNo: "CARD0004", FullName: "Ada"})
		assert.ErrorIs(t, err, domain.ErrDuplicatePatron)
	})
}

func TestIssueToken(t *testing.T) {
	ctx := context.Background()
	tokens := token.NewManager("test-secret", time.Hour)

	t.Run("mints a validatable token", func(t *testing.T) {
		patronRepo := &fakePatronRepo{
			GetByCardNoFn: func(_ context.Context, cardNo string) (*models.Patron, error) {
				return &models.Patron{ID: 4, CardNo: cardNo, Role: "STAFF"}, nil
			},
		}
		svc := NewPatronService(patronRepo, tokens)

		tok, patron, err := svc.IssueToken(ctx, "STAFF001")
		require.NoError(t, err)
		assert.Equal(t, uint(4), patron.ID)

		claims, err := tokens.Validate(tok)
		require.NoError(t, err)
		assert.Equal(t, uint(4), claims.PatronID)
		assert.Equal(t, "STAFF", claims.Role)
	})

	t.Run("unknown card yields ErrPatronNotFound", func(t *testing.T) {
		svc := NewPatronService(&fakePatronRepo{}, tokens)

		_, _, err := svc.IssueToken(ctx, "NOPE")
		assert.ErrorIs(t, err, domain.ErrPatronNotFound)
	})
}
