package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Sweep Service (background scheduler)
// ============================================================

// SweepService runs the overdue and expiry sweeps on fixed intervals.
// Each sweep is wrapped in SkipIfStillRunning so a slow pass suppresses
// the next tick instead of stacking; correctness never depends on that,
// the per-row test-and-sets already make overlapping sweeps safe.
type SweepService struct {
	loans        *LoanService
	reservations *ReservationService

	overdueEvery     time.Duration
	reservationEvery time.Duration

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSweepService creates a new sweep scheduler
func NewSweepService(
	loans *LoanService,
	reservations *ReservationService,
	overdueEvery time.Duration,
	reservationEvery time.Duration,
) *SweepService {
	return &SweepService{
		loans:            loans,
		reservations:     reservations,
		overdueEvery:     overdueEvery,
		reservationEvery: reservationEvery,
	}
}

// Start registers and starts the sweep jobs
func (s *SweepService) Start() error {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.cron = cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.overdueEvery), s.RunOverdueSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.reservationEvery), s.RunReservationSweep); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("🚀 Sweep scheduler started (overdue every %s, reservations every %s)", s.overdueEvery, s.reservationEvery)
	return nil
}

// Stop cancels in-flight sweeps and waits for running jobs to finish
func (s *SweepService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	log.Println("✅ Sweep scheduler stopped")
}

// RunOverdueSweep executes one overdue pass. Exposed so the admin API
// can trigger it outside the schedule.
func (s *SweepService) RunOverdueSweep() {
	if _, _, err := s.loans.MarkOverdueLoans(s.ctx); err != nil && s.ctx.Err() == nil {
		log.Printf("❌ Overdue sweep error: %v", err)
	}
}

// RunReservationSweep executes one reservation expiry pass
func (s *SweepService) RunReservationSweep() {
	if _, _, err := s.reservations.ExpireStaleReservations(s.ctx); err != nil && s.ctx.Err() == nil {
		log.Printf("❌ Reservation sweep error: %v", err)
	}
}
