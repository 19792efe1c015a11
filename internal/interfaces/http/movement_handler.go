package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/application/ledger"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

// MovementHandler expone el historial del libro de stock y los ajustes
// manuales (protegido).
type MovementHandler struct {
	listUC   *ledger.ListMovementsUseCase
	adjustUC *ledger.AdjustmentUseCase
}

func NewMovementHandler(listUC *ledger.ListMovementsUseCase, adjustUC *ledger.AdjustmentUseCase) *MovementHandler {
	return &MovementHandler{listUC: listUC, adjustUC: adjustUC}
}

// List devuelve los movimientos de la boutique, más recientes primero.
// GET /api/movements?item_id=&kind=&limit=&offset=
func (h *MovementHandler) List(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	if boutiqueID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter := repository.MovementFilter{
		ItemID: c.Query("item_id"),
		Kind:   c.Query("kind"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	movements, err := h.listUC.List(c.Context(), boutiqueID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"movements": movements})
}

// Adjust registra un ajuste manual de stock con motivo obligatorio.
// POST /api/adjustments
func (h *MovementHandler) Adjust(c *fiber.Ctx) error {
	boutiqueID := GetBoutiqueID(c)
	userID := GetUserID(c)
	if boutiqueID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.adjustUC.Adjust(c.Context(), ledger.AdjustmentInput{
		BoutiqueID: boutiqueID,
		ItemID:     in.ItemID,
		Delta:      in.Delta,
		Reason:     in.Reason,
		ActorID:    userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mov)
}
