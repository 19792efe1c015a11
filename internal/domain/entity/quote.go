package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote representa una cotización. No mueve stock; al aceptarse puede
// convertirse en una factura BROUILLON copiando sus líneas tal cual.
type Quote struct {
	ID         string
	BoutiqueID string
	Number     string
	CustomerID string // opcional
	Status     string
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	Notes      string
	ValidUntil *time.Time
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QuoteLine línea de cotización.
type QuoteLine struct {
	ID          string
	QuoteID     string
	Kind        string
	ItemID      string // solo CATALOG
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal
	Position    int
}
