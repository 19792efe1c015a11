package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa la cabecera de una compra a proveedor.
// Al crearse entra stock por cada línea de catálogo, en la misma transacción.
type Purchase struct {
	ID         string
	BoutiqueID string
	Number     string
	SupplierID string // opcional
	Status     string
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseLine línea de compra. Kind CATALOG referencia un Item; FREE_TEXT no mueve stock.
type PurchaseLine struct {
	ID          string
	PurchaseID  string
	Kind        string
	ItemID      string // solo CATALOG
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal // Quantity × UnitPrice
	Position    int
}
