package handlers

import (
	"strconv"

	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/core/services"
	"bibliocirc/internal/pkg/pagination"
	"bibliocirc/internal/pkg/response"
	"bibliocirc/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles document and item endpoints
type CatalogHandler struct {
	inventoryService *services.InventoryService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(inventoryService *services.InventoryService) *CatalogHandler {
	return &CatalogHandler{
		inventoryService: inventoryService,
	}
}

// ============================================================
// POST /api/v1/documents - register a document (staff)
// ============================================================
func (h *CatalogHandler) CreateDocument(c *fiber.Ctx) error {
	var input services.CreateDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	doc, err := h.inventoryService.CreateDocument(c.Context(), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Document registered", doc)
}

// ============================================================
// GET /api/v1/documents - search the catalog
// ============================================================
func (h *CatalogHandler) ListDocuments(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := c.Query("search", "")

	docs, total, err := h.inventoryService.ListDocuments(c.Context(), search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list documents")
	}
	return response.Success(c, "Documents retrieved", pagination.NewResponse(docs, params, total))
}

// ============================================================
// GET /api/v1/documents/:id - one document with availability
// ============================================================
func (h *CatalogHandler) GetDocument(c *fiber.Ctx) error {
	documentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	doc, err := h.inventoryService.GetDocument(c.Context(), uint(documentID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Document retrieved", doc)
}

// ============================================================
// DELETE /api/v1/documents/:id - remove an itemless document (staff)
// ============================================================
func (h *CatalogHandler) DeleteDocument(c *fiber.Ctx) error {
	documentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	if err := h.inventoryService.DeleteDocument(c.Context(), uint(documentID)); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Document deleted", nil)
}

// ============================================================
// POST /api/v1/documents/:id/items - attach a copy (staff)
// ============================================================
func (h *CatalogHandler) AddItem(c *fiber.Ctx) error {
	documentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	var input struct {
		Location string `json:"location" validate:"max=100"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	item, err := h.inventoryService.AddItem(c.Context(), uint(documentID), input.Location)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Item added", item)
}

// ============================================================
// GET /api/v1/documents/:id/items - copies of a document
// ============================================================
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	documentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	items, err := h.inventoryService.ListItems(c.Context(), uint(documentID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Items retrieved", items)
}

// ============================================================
// PUT /api/v1/items/:id/status - administrative item transition (staff)
// ============================================================
func (h *CatalogHandler) SetItemStatus(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid item ID")
	}

	var input struct {
		Status models.ItemStatus `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !models.ValidItemStatuses[input.Status] {
		return response.BadRequest(c, "Unknown item status")
	}

	item, err := h.inventoryService.SetItemState(c.Context(), uint(itemID), input.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Item status updated", item)
}
