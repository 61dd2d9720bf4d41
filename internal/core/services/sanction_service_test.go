package services

import (
	"context"
	"testing"
	"time"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanctionDays(t *testing.T) {
	svc := NewSanctionService(&fakeSanctionRepo{}, &fakePatronRepo{}, &captureEmitter{}, 2)

	assert.Equal(t, 2, svc.SanctionDays(1))
	assert.Equal(t, 6, svc.SanctionDays(3))
	// Never below one day, even for degenerate input
	assert.Equal(t, 1, svc.SanctionDays(0))

	triple := NewSanctionService(&fakeSanctionRepo{}, &fakePatronRepo{}, &captureEmitter{}, 3)
	assert.Equal(t, 9, triple.SanctionDays(3))
}

func TestApplySanction(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	var stored *models.Sanction
	sancRepo := &fakeSanctionRepo{
		CreateFn: func(_ context.Context, s *models.Sanction) error {
			s.ID = 11
			stored = s
			return nil
		},
	}
	var suspendedPatron uint
	var suspendedUntil time.Time
	patronRepo := &fakePatronRepo{
		SetSuspendedUntilFn: func(_ context.Context, patronID uint, until time.Time) error {
			suspendedPatron = patronID
			suspendedUntil = until
			return nil
		},
	}
	em := &captureEmitter{}
	svc := NewSanctionService(sancRepo, patronRepo, em, 2)

	sanction, err := svc.Apply(ctx, 4, 9, 3, now)
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, uint(4), sanction.PatronID)
	assert.Equal(t, uint(9), sanction.LoanID)
	assert.Equal(t, 3, sanction.DaysLate)
	assert.Equal(t, models.SanctionActive, sanction.Status)
	assert.Equal(t, now, sanction.StartsAt)
	assert.Equal(t, now.Add(6*24*time.Hour), sanction.EndsAt)

	assert.Equal(t, uint(4), suspendedPatron)
	assert.Equal(t, sanction.EndsAt, suspendedUntil)

	require.Equal(t, 1, em.CountTopic(domain.TopicPatronSanctioned))
	payload, ok := em.events[0].Payload.(domain.SanctionEvent)
	require.True(t, ok)
	assert.Equal(t, uint(11), payload.SanctionID)
	assert.Equal(t, 6, payload.SanctionDays)
}
