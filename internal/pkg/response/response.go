package response

import (
	"errors"

	"bibliocirc/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// FromError maps a circulation error onto the HTTP status it belongs
// to: not-found to 404, state conflicts to 409, suspension to 403 and
// everything unrecognized to 500.
func FromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrPatronNotFound):
		return NotFound(c, err.Error())

	case errors.Is(err, domain.ErrNoCopyAvailable),
		errors.Is(err, domain.ErrDuplicateReservation),
		errors.Is(err, domain.ErrLoanNotActive),
		errors.Is(err, domain.ErrReservationNotActive),
		errors.Is(err, domain.ErrItemNotLoanable),
		errors.Is(err, domain.ErrDuplicatePatron),
		errors.Is(err, domain.ErrDocumentHasItems):
		return Conflict(c, err.Error())

	case errors.Is(err, domain.ErrInvalidItemStatus):
		return BadRequest(c, err.Error())

	case errors.Is(err, domain.ErrPatronSuspended):
		return Forbidden(c, err.Error())

	default:
		return InternalServerError(c, "internal server error")
	}
}
