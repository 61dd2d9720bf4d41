package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoanDaysLate(t *testing.T) {
	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	loan := &Loan{DueAt: due}

	t.Run("on time or early is zero", func(t *testing.T) {
		assert.Equal(t, 0, loan.DaysLate(due))
		assert.Equal(t, 0, loan.DaysLate(due.Add(-time.Hour)))
	})

	t.Run("partial days round up", func(t *testing.T) {
		assert.Equal(t, 1, loan.DaysLate(due.Add(time.Minute)))
		assert.Equal(t, 1, loan.DaysLate(due.Add(23*time.Hour)))
		assert.Equal(t, 2, loan.DaysLate(due.Add(25*time.Hour)))
	})

	t.Run("whole days stay whole", func(t *testing.T) {
		assert.Equal(t, 1, loan.DaysLate(due.Add(24*time.Hour)))
		assert.Equal(t, 3, loan.DaysLate(due.Add(72*time.Hour)))
	})
}

func TestItemStatusAdminSettable(t *testing.T) {
	assert.True(t, ItemAvailable.AdminSettable())
	assert.True(t, ItemMaintenance.AdminSettable())
	assert.True(t, ItemLost.AdminSettable())
	assert.False(t, ItemOnLoan.AdminSettable())
	assert.False(t, ItemReserved.AdminSettable())
}

func TestLoanStatusOutstanding(t *testing.T) {
	assert.True(t, LoanActive.Outstanding())
	assert.True(t, LoanOverdue.Outstanding())
	assert.False(t, LoanReturned.Outstanding())
}

func TestReservationStatusTerminal(t *testing.T) {
	assert.False(t, ReservationActive.Terminal())
	assert.True(t, ReservationCompleted.Terminal())
	assert.True(t, ReservationCancelled.Terminal())
	assert.True(t, ReservationExpired.Terminal())
}

func TestPatronSuspendedAt(t *testing.T) {
	now := time.Now()

	p := &Patron{}
	assert.False(t, p.SuspendedAt(now))

	until := now.Add(time.Hour)
	p.SuspendedUntil = &until
	assert.True(t, p.SuspendedAt(now))
	assert.False(t, p.SuspendedAt(until))
	assert.False(t, p.SuspendedAt(until.Add(time.Minute)))
}
