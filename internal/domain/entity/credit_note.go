package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNote representa una nota de crédito, opcionalmente ligada a una factura.
// Al validarse, cada línea de catálogo marcada ReturnToStock reingresa stock;
// las demás líneas nunca tocan el inventario.
type CreditNote struct {
	ID         string
	BoutiqueID string
	Number     string
	CustomerID string // opcional
	InvoiceID  string // opcional: factura que origina la nota
	Status     string
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreditNoteLine línea de nota de crédito.
type CreditNoteLine struct {
	ID            string
	CreditNoteID  string
	Kind          string
	ItemID        string // solo CATALOG
	Description   string
	Quantity      int64
	UnitPrice     decimal.Decimal
	TaxRate       decimal.Decimal
	LineTotal     decimal.Decimal
	ReturnToStock bool
	Position      int
}
