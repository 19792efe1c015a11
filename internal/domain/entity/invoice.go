package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura de venta.
// La creación descuenta stock por cada línea de catálogo; si alguna línea no
// tiene existencias suficientes, la factura completa se rechaza.
type Invoice struct {
	ID            string
	BoutiqueID    string
	Number        string
	CustomerID    string // opcional
	Status        string
	PaymentMethod string
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceLine línea de factura.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Kind        string
	ItemID      string // solo CATALOG
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal
	Position    int
}
