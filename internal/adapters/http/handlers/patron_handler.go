package handlers

import (
	"strconv"

	"bibliocirc/internal/core/services"
	"bibliocirc/internal/pkg/pagination"
	"bibliocirc/internal/pkg/response"
	"bibliocirc/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// PatronHandler handles patron directory endpoints
type PatronHandler struct {
	patronService *services.PatronService
}

// NewPatronHandler creates a new patron handler
func NewPatronHandler(patronService *services.PatronService) *PatronHandler {
	return &PatronHandler{
		patronService: patronService,
	}
}

// ============================================================
// POST /api/v1/patrons - register a patron (staff)
// ============================================================
func (h *PatronHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterPatronInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	patron, err := h.patronService.Register(c.Context(), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Patron registered", patron)
}

// ============================================================
// POST /api/v1/auth/token - exchange a card number for a token
// ============================================================
func (h *PatronHandler) IssueToken(c *fiber.Ctx) error {
	var input struct {
		CardNo string `json:"card_no" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	tok, patron, err := h.patronService.IssueToken(c.Context(), input.CardNo)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Token issued", fiber.Map{
		"access_token": tok,
		"patron":       patron,
	})
}

// ============================================================
// GET /api/v1/patrons - list patrons (staff)
// ============================================================
func (h *PatronHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	patrons, total, err := h.patronService.ListPatrons(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list patrons")
	}
	return response.Success(c, "Patrons retrieved", pagination.NewResponse(patrons, params, total))
}

// ============================================================
// GET /api/v1/patrons/:id - one patron (staff)
// ============================================================
func (h *PatronHandler) Get(c *fiber.Ctx) error {
	patronID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid patron ID")
	}

	patron, err := h.patronService.GetPatron(c.Context(), uint(patronID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Patron retrieved", patron)
}

// ============================================================
// GET /api/v1/me - the authenticated patron
// ============================================================
func (h *PatronHandler) Me(c *fiber.Ctx) error {
	patronID, ok := c.Locals("patronID").(uint)
	if !ok {
		return response.Unauthorized(c, "Patron not authenticated")
	}

	patron, err := h.patronService.GetPatron(c.Context(), patronID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile retrieved", patron)
}
