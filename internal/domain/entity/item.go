package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un repuesto en catálogo con su stock actual (cache autoritativo).
// Quantity solo se modifica a través del libro de movimientos (ledger), nunca directamente.
type Item struct {
	ID           string
	BoutiqueID   string
	SKU          string
	Name         string
	Quantity     int64 // cantidad en existencia, unidades enteras
	ReorderPoint int64
	SalePrice    decimal.Decimal
	CostPrice    decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
