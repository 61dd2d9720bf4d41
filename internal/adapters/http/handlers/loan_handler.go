package handlers

import (
	"strconv"
	"time"

	"bibliocirc/internal/core/services"
	"bibliocirc/internal/pkg/pagination"
	"bibliocirc/internal/pkg/response"
	"bibliocirc/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// ============================================================
// POST /api/v1/loans - open a loan
// ============================================================
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	patronID, ok := c.Locals("patronID").(uint)
	if !ok {
		return response.Unauthorized(c, "Patron not authenticated")
	}

	var input services.CreateLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Staff can open loans on behalf of any patron; everyone else only
	// for themselves
	role, _ := c.Locals("role").(string)
	if role != "STAFF" || input.PatronID == 0 {
		input.PatronID = patronID
	}

	if input.DocumentID == 0 && input.ItemID == 0 {
		return response.BadRequest(c, "document_id or item_id is required")
	}
	if err := validation.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	loan, err := h.loanService.CreateLoan(c.Context(), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Loan created", loan)
}

// ============================================================
// GET /api/v1/loans/:id - one loan
// ============================================================
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetLoan(c.Context(), uint(loanID))
	if err != nil {
		return response.FromError(c, err)
	}

	if !isOwnerOrStaff(c, loan.PatronID) {
		return response.Forbidden(c, "Not your loan")
	}
	return response.Success(c, "Loan retrieved", loan)
}

// ============================================================
// GET /api/v1/loans/my - the authenticated patron's loans
// ============================================================
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	patronID, ok := c.Locals("patronID").(uint)
	if !ok {
		return response.Unauthorized(c, "Patron not authenticated")
	}

	params := pagination.GetParams(c)
	outstandingOnly := c.QueryBool("outstanding", false)

	loans, total, err := h.loanService.ListPatronLoans(c.Context(), patronID, outstandingOnly, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}
	return response.Success(c, "Loans retrieved", pagination.NewResponse(loans, params, total))
}

// ============================================================
// GET /api/v1/patrons/:id/loans - a patron's loans (staff)
// ============================================================
func (h *LoanHandler) PatronLoans(c *fiber.Ctx) error {
	patronID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid patron ID")
	}

	params := pagination.GetParams(c)
	outstandingOnly := c.QueryBool("outstanding", false)

	loans, total, err := h.loanService.ListPatronLoans(c.Context(), uint(patronID), outstandingOnly, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}
	return response.Success(c, "Loans retrieved", pagination.NewResponse(loans, params, total))
}

// ============================================================
// PUT /api/v1/loans/:id/return - close a loan
// ============================================================
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	existing, err := h.loanService.GetLoan(c.Context(), uint(loanID))
	if err != nil {
		return response.FromError(c, err)
	}
	if !isOwnerOrStaff(c, existing.PatronID) {
		return response.Forbidden(c, "Not your loan")
	}

	loan, err := h.loanService.ReturnLoan(c.Context(), uint(loanID), time.Now())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loan returned", loan)
}

// ============================================================
// PUT /api/v1/loans/:id/extend - push the due date forward (staff)
// ============================================================
func (h *LoanHandler) Extend(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input struct {
		ExtraDays int `json:"extra_days" validate:"required,min=1,max=90"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	loan, err := h.loanService.ExtendLoan(c.Context(), uint(loanID), input.ExtraDays)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Loan extended", loan)
}

// isOwnerOrStaff reports whether the caller owns the loan or is staff
func isOwnerOrStaff(c *fiber.Ctx, ownerID uint) bool {
	if role, _ := c.Locals("role").(string); role == "STAFF" {
		return true
	}
	patronID, ok := c.Locals("patronID").(uint)
	return ok && patronID == ownerID
}
