package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/application/inventory"
)

// InventoryHandler maneja las sesiones de inventario físico (protegido).
type InventoryHandler struct {
	uc *inventory.SessionUseCase
}

func NewInventoryHandler(uc *inventory.SessionUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateSession abre una sesión de conteo congelando la cantidad teórica de
// cada artículo. Sin item_ids cubre todos los artículos activos.
// POST /api/inventory-sessions
func (h *InventoryHandler) CreateSession(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	userID := GetUserID(c)
	if boutiqueID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, lines, err := h.uc.CreateSession(c.Context(), boutiqueID, userID, in.ItemIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session, "lines": lines})
}

// GetByID obtiene la sesión con sus líneas de conteo.
// GET /api/inventory-sessions/:id
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	if boutiqueID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	session, lines, err := h.uc.Get(c.Context(), boutiqueID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"session": session, "lines": lines})
}

// CountLine registra el conteo físico de una línea; repetible mientras la
// sesión siga EN_COURS.
// PUT /api/inventory-sessions/:id/lines/:lineId
func (h *InventoryHandler) CountLine(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	if boutiqueID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CountLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.CountLine(c.Context(), boutiqueID, c.Params("id"), c.Params("lineId"), in.PhysicalQty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(line)
}

// UpdateStatus cierra la sesión: VALIDE aplica las diferencias contadas al
// stock, ANNULE la descarta sin tocarlo.
// PATCH /api/inventory-sessions/:id/status
func (h *InventoryHandler) UpdateStatus(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	userID := GetUserID(c)
	if boutiqueID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.uc.SetStatus(c.Context(), boutiqueID, userID, c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(session)
}
