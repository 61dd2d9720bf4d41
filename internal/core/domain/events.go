package domain

import "time"

// Event topics published to the notification transport
const (
	TopicLoanCreated          = "loan.created"
	TopicLoanReturned         = "loan.returned"
	TopicLoanOverdue          = "loan.overdue"
	TopicReservationCreated   = "reservation.created"
	TopicReservationCancelled = "reservation.cancelled"
	TopicReservationCompleted = "reservation.completed"
	TopicReservationExpired   = "reservation.expired"
	TopicPatronSanctioned     = "patron.sanctioned"
)

// LoanEvent is the payload for loan.* topics
type LoanEvent struct {
	LoanID        uint       `json:"loan_id"`
	ItemID        uint       `json:"item_id"`
	DocumentID    uint       `json:"document_id"`
	DocumentTitle string     `json:"document_title,omitempty"`
	PatronID      uint       `json:"patron_id"`
	Kind          string     `json:"kind"`
	DueAt         time.Time  `json:"due_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	DaysLate      int        `json:"days_late,omitempty"`
}

// ReservationEvent is the payload for reservation.* topics
type ReservationEvent struct {
	ReservationID uint      `json:"reservation_id"`
	DocumentID    uint      `json:"document_id"`
	PatronID      uint      `json:"patron_id"`
	ReservedFor   time.Time `json:"reserved_for"`
}

// SanctionEvent is the payload for patron.sanctioned
type SanctionEvent struct {
	SanctionID   uint      `json:"sanction_id"`
	PatronID     uint      `json:"patron_id"`
	LoanID       uint      `json:"loan_id"`
	DaysLate     int       `json:"days_late"`
	SanctionDays int       `json:"sanction_days"`
	EndsAt       time.Time `json:"ends_at"`
}
