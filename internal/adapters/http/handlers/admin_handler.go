package handlers

import (
	"strconv"

	"bibliocirc/internal/core/services"
	"bibliocirc/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles staff-only circulation operations: statistics,
// sanction history and out-of-schedule sweep runs
type AdminHandler struct {
	statsService    *services.StatsService
	sanctionService *services.SanctionService
	sweepService    *services.SweepService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	statsService *services.StatsService,
	sanctionService *services.SanctionService,
	sweepService *services.SweepService,
) *AdminHandler {
	return &AdminHandler{
		statsService:    statsService,
		sanctionService: sanctionService,
		sweepService:    sweepService,
	}
}

// ============================================================
// GET /api/v1/admin/stats - circulation snapshot
// ============================================================
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.statsService.Snapshot(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build statistics")
	}
	return response.Success(c, "Statistics retrieved", stats)
}

// ============================================================
// GET /api/v1/patrons/:id/sanctions - sanction history (staff)
// ============================================================
func (h *AdminHandler) PatronSanctions(c *fiber.Ctx) error {
	patronID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid patron ID")
	}

	sanctions, err := h.sanctionService.History(c.Context(), uint(patronID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list sanctions")
	}
	return response.Success(c, "Sanctions retrieved", sanctions)
}

// ============================================================
// POST /api/v1/admin/sweeps/overdue - run the overdue sweep now
// ============================================================
func (h *AdminHandler) RunOverdueSweep(c *fiber.Ctx) error {
	h.sweepService.RunOverdueSweep()
	return response.Success(c, "Overdue sweep executed", nil)
}

// ============================================================
// POST /api/v1/admin/sweeps/reservations - run the expiry sweep now
// ============================================================
func (h *AdminHandler) RunReservationSweep(c *fiber.Ctx) error {
	h.sweepService.RunReservationSweep()
	return response.Success(c, "Reservation sweep executed", nil)
}
