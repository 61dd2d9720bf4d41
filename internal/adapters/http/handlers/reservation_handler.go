package handlers

import (
	"strconv"

	"bibliocirc/internal/core/services"
	"bibliocirc/internal/pkg/pagination"
	"bibliocirc/internal/pkg/response"
	"bibliocirc/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ReservationHandler handles reservation endpoints
type ReservationHandler struct {
	reservationService *services.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

// ============================================================
// POST /api/v1/reservations - place a reservation
// ============================================================
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	patronID, ok := c.Locals("patronID").(uint)
	if !ok {
		return response.Unauthorized(c, "Patron not authenticated")
	}

	var input services.CreateReservationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role, _ := c.Locals("role").(string)
	if role != "STAFF" || input.PatronID == 0 {
		input.PatronID = patronID
	}

	if err := validation.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	res, err := h.reservationService.CreateReservation(c.Context(), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Reservation placed", res)
}

// ============================================================
// GET /api/v1/reservations/my - the patron's reservations
// ============================================================
func (h *ReservationHandler) MyReservations(c *fiber.Ctx) error {
	patronID, ok := c.Locals("patronID").(uint)
	if !ok {
		return response.Unauthorized(c, "Patron not authenticated")
	}

	params := pagination.GetParams(c)
	activeOnly := c.QueryBool("active", false)

	reservations, total, err := h.reservationService.ListPatronReservations(c.Context(), patronID, activeOnly, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reservations")
	}
	return response.Success(c, "Reservations retrieved", pagination.NewResponse(reservations, params, total))
}

// ============================================================
// GET /api/v1/reservations/:id - one reservation
// ============================================================
func (h *ReservationHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reservation ID")
	}

	res, err := h.reservationService.GetReservation(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}
	if !isOwnerOrStaff(c, res.PatronID) {
		return response.Forbidden(c, "Not your reservation")
	}
	return response.Success(c, "Reservation retrieved", res)
}

// ============================================================
// PUT /api/v1/reservations/:id/cancel - cancel a reservation
// ============================================================
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reservation ID")
	}

	existing, err := h.reservationService.GetReservation(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}
	if !isOwnerOrStaff(c, existing.PatronID) {
		return response.Forbidden(c, "Not your reservation")
	}

	res, err := h.reservationService.CancelReservation(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reservation cancelled", res)
}

// ============================================================
// PUT /api/v1/reservations/:id/complete - fulfil a pickup (staff)
// ============================================================
func (h *ReservationHandler) Complete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reservation ID")
	}

	res, err := h.reservationService.CompleteReservation(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reservation completed", res)
}
