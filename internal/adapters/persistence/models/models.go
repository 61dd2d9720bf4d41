package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Status enumerations
// ============================================================

// ItemStatus is the lifecycle state of a physical copy
type ItemStatus string

const (
	ItemAvailable   ItemStatus = "AVAILABLE"
	ItemOnLoan      ItemStatus = "ON_LOAN"
	ItemReserved    ItemStatus = "RESERVED"
	ItemMaintenance ItemStatus = "MAINTENANCE"
	ItemLost        ItemStatus = "LOST"
)

// ValidItemStatuses for input validation on admin transitions
var ValidItemStatuses = map[ItemStatus]bool{
	ItemAvailable:   true,
	ItemOnLoan:      true,
	ItemReserved:    true,
	ItemMaintenance: true,
	ItemLost:        true,
}

// AdminSettable reports whether a status may be applied via the
// administrative transition. ON_LOAN is only reachable through the
// inventory claim.
func (s ItemStatus) AdminSettable() bool {
	return s == ItemAvailable || s == ItemMaintenance || s == ItemLost
}

// LoanStatus is the lifecycle state of a loan
type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanOverdue  LoanStatus = "OVERDUE"
	LoanReturned LoanStatus = "RETURNED"
)

// Outstanding reports whether the item is still with the patron.
// OVERDUE is a sub-state of outstanding, not a termination.
func (s LoanStatus) Outstanding() bool {
	return s == LoanActive || s == LoanOverdue
}

// LoanKind determines the due-date policy
type LoanKind string

const (
	LoanKindHome     LoanKind = "HOME"
	LoanKindInBranch LoanKind = "IN_BRANCH"
)

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

// Terminal reports whether no further transitions are allowed
func (s ReservationStatus) Terminal() bool {
	return s != ReservationActive
}

// SanctionStatus is the lifecycle state of a sanction
type SanctionStatus string

const (
	SanctionActive SanctionStatus = "ACTIVE"
	SanctionLifted SanctionStatus = "LIFTED"
)

// ============================================================
// Catalog tables
// ============================================================

// Document represents documents table (one catalog record per work)
type Document struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:255;not null;index" json:"title"`
	Author   string `gorm:"size:255;index" json:"author"`
	DocType  string `gorm:"size:50" json:"doc_type"`
	Category string `gorm:"size:100;index" json:"category"`
	Edition  string `gorm:"size:100" json:"edition"`
	Year     int    `json:"year"`

	// Denormalized counters. AvailableItems is a cache over the item
	// states; it is recomputed from them after every transition, never
	// incremented blindly.
	TotalItems     int `gorm:"not null;default:0" json:"total_items"`
	AvailableItems int `gorm:"not null;default:0" json:"available_items"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []Item `gorm:"foreignKey:DocumentID" json:"items,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// Item represents items table (one physical copy of a document)
type Item struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	DocumentID uint       `gorm:"not null;index:idx_items_doc_status" json:"document_id"`
	Location   string     `gorm:"size:100" json:"location"`
	Status     ItemStatus `gorm:"size:20;not null;default:'AVAILABLE';index:idx_items_doc_status" json:"status"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

// ============================================================
// Circulation tables
// ============================================================

// Loan represents loans table
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ItemID     uint       `gorm:"not null;index" json:"item_id"`
	PatronID   uint       `gorm:"not null;index" json:"patron_id"`
	Kind       LoanKind   `gorm:"size:20;not null" json:"kind"`
	Status     LoanStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	PlacedAt   time.Time  `gorm:"not null" json:"placed_at"`
	DueAt      time.Time  `gorm:"not null;index" json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Item   *Item   `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Patron *Patron `gorm:"foreignKey:PatronID" json:"patron,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// DaysLate returns the number of started days between the due date and
// the given return time, zero when returned on time.
func (l *Loan) DaysLate(returnedAt time.Time) int {
	if !returnedAt.After(l.DueAt) {
		return 0
	}
	late := returnedAt.Sub(l.DueAt)
	days := int(late / (24 * time.Hour))
	if late%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Reservation represents reservations table.
// A reservation is a claim on a document, never on a specific item,
// and does not reduce the document's available count.
type Reservation struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	DocumentID  uint              `gorm:"not null;index:idx_res_patron_doc" json:"document_id"`
	PatronID    uint              `gorm:"not null;index:idx_res_patron_doc" json:"patron_id"`
	ReservedFor time.Time         `gorm:"not null;index" json:"reserved_for"`
	Status      ReservationStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Patron   *Patron   `gorm:"foreignKey:PatronID" json:"patron,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// Sanction represents sanctions table
type Sanction struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PatronID  uint           `gorm:"not null;index" json:"patron_id"`
	LoanID    uint           `gorm:"not null" json:"loan_id"`
	Reason    string         `gorm:"size:255" json:"reason"`
	DaysLate  int            `gorm:"not null" json:"days_late"`
	StartsAt  time.Time      `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time      `gorm:"not null;index" json:"ends_at"`
	Status    SanctionStatus `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Patron *Patron `gorm:"foreignKey:PatronID" json:"patron,omitempty"`
	Loan   *Loan   `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (Sanction) TableName() string {
	return "sanctions"
}

// Patron represents patrons table. The circulation engine only reads
// identity and the suspension window, and writes the window when a
// sanction is applied; everything else belongs to user management.
type Patron struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CardNo         string     `gorm:"uniqueIndex;size:20;not null" json:"card_no"`
	FullName       string     `gorm:"size:150;not null" json:"full_name"`
	Email          string     `gorm:"size:100" json:"email"`
	Role           string     `gorm:"size:20;default:'PATRON'" json:"role"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	SuspendedUntil *time.Time `json:"suspended_until"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patron) TableName() string {
	return "patrons"
}

// SuspendedAt reports whether the patron is blocked from new loans at t
func (p *Patron) SuspendedAt(t time.Time) bool {
	return p.SuspendedUntil != nil && p.SuspendedUntil.After(t)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all circulation tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Patron{},
		&Document{},
		&Item{},
		&Loan{},
		&Reservation{},
		&Sanction{},
	)
}
