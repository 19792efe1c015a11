package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/repuestos-api/internal/application/billing"
	"github.com/jhoicas/repuestos-api/internal/application/dto"
)

// CreditNoteHandler maneja las peticiones HTTP de notas de crédito (protegido).
type CreditNoteHandler struct {
	uc *billing.CreditNoteUseCase
}

func NewCreditNoteHandler(uc *billing.CreditNoteUseCase) *CreditNoteHandler {
	return &CreditNoteHandler{uc: uc}
}

// Create crea una nota de crédito EN_ATTENTE. Si referencia una factura y no
// trae líneas, las copia de la factura sin reingreso de stock.
// POST /api/credit-notes
func (h *CreditNoteHandler) Create(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	userID := GetUserID(c)
	if boutiqueID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	note, lines, err := h.uc.Create(c.Context(), boutiqueID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"credit_note": note, "lines": lines})
}

// GetByID obtiene el detalle completo de una nota de crédito.
// GET /api/credit-notes/:id
func (h *CreditNoteHandler) GetByID(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	if boutiqueID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	note, lines, err := h.uc.Get(c.Context(), boutiqueID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"credit_note": note, "lines": lines})
}

// UpdateStatus cambia el estado. La transición a VALIDE reingresa stock por
// cada línea de catálogo marcada return_to_stock, en la misma transacción.
// PATCH /api/credit-notes/:id/status
func (h *CreditNoteHandler) UpdateStatus(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	userID := GetUserID(c)
	if boutiqueID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	note, err := h.uc.UpdateStatus(c.Context(), boutiqueID, userID, c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(note)
}

// ReplaceLines reemplaza todas las líneas de una nota EN_ATTENTE y recalcula
// los totales.
// PUT /api/credit-notes/:id/lines
func (h *CreditNoteHandler) ReplaceLines(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	userID := GetUserID(c)
	if boutiqueID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReplaceCreditNoteLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	note, lines, err := h.uc.ReplaceLines(c.Context(), boutiqueID, userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"credit_note": note, "lines": lines})
}

// Delete elimina una nota de crédito todavía EN_ATTENTE.
// DELETE /api/credit-notes/:id
func (h *CreditNoteHandler) Delete(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	if boutiqueID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), boutiqueID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
