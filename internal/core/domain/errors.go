package domain

import "errors"

// Not-found errors
var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPatronNotFound      = errors.New("patron not found")
)

// Conflict errors (entity exists but is not in a state that allows the
// requested transition)
var (
	ErrNoCopyAvailable      = errors.New("no available copy for this document")
	ErrDuplicateReservation = errors.New("patron already has an active reservation for this document")
	ErrLoanNotActive        = errors.New("loan is not active or overdue")
	ErrReservationNotActive = errors.New("reservation is not active")
	ErrItemNotLoanable      = errors.New("item is not available for loan")
	ErrInvalidItemStatus    = errors.New("item status cannot be set administratively")
	ErrDuplicatePatron      = errors.New("patron card number already registered")
	ErrDocumentHasItems     = errors.New("document still has items attached")
)

// Forbidden errors; surfaced apart from generic conflicts because the
// caller shows a different message for a suspended patron
var (
	ErrPatronSuspended = errors.New("patron is suspended and cannot create loans")
)
