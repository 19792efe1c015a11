package dto

// CreateSessionRequest abre una sesión de inventario físico. ItemIDs vacío
// significa todos los artículos activos de la boutique.
type CreateSessionRequest struct {
	ItemIDs []string `json:"item_ids,omitempty"`
}

// CountLineRequest registra el conteo físico de una línea.
type CountLineRequest struct {
	PhysicalQty int64 `json:"physical_qty"`
}

// AdjustmentRequest ajuste manual de stock.
type AdjustmentRequest struct {
	ItemID string `json:"item_id"`
	Delta  int64  `json:"delta"`
	Reason string `json:"reason"`
}
