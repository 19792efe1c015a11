package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/repuestos-api/internal/application/billing"
	"github.com/jhoicas/repuestos-api/internal/application/dto"
)

// PurchaseHandler maneja las peticiones HTTP de compras (protegido).
type PurchaseHandler struct {
	uc *billing.PurchaseUseCase
}

func NewPurchaseHandler(uc *billing.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create crea una compra: numera, persiste líneas y entra stock por las
// líneas de catálogo, todo en una transacción.
// POST /api/purchases
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	userID := GetUserID(c)
	if boutiqueID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	purchase, lines, err := h.uc.Create(c.Context(), boutiqueID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"purchase": purchase, "lines": lines})
}

// GetByID obtiene el detalle completo de una compra.
// GET /api/purchases/:id
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	if boutiqueID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	purchase, lines, err := h.uc.Get(c.Context(), boutiqueID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"purchase": purchase, "lines": lines})
}

// UpdateStatus cambia el estado según la máquina de estados de compras.
// PATCH /api/purchases/:id/status
func (h *PurchaseHandler) UpdateStatus(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	userID := GetUserID(c)
	if boutiqueID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	purchase, err := h.uc.UpdateStatus(c.Context(), boutiqueID, userID, c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchase)
}

// Delete elimina una compra todavía EN_ATTENTE. Los movimientos registrados
// no se revierten jamás.
// DELETE /api/purchases/:id
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	if boutiqueID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), boutiqueID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
