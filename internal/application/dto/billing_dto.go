package dto

import (
	"github.com/shopspring/decimal"
)

// LineInput línea de documento entrante. Kind decide la variante:
// CATALOG exige ItemID; FREE_TEXT exige Description y nunca mueve stock.
type LineInput struct {
	Kind        string          `json:"kind"`
	ItemID      string          `json:"item_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreditNoteLineInput línea de nota de crédito; ReturnToStock marca si la
// línea reingresa unidades al validar la nota.
type CreditNoteLineInput struct {
	LineInput
	ReturnToStock bool `json:"return_to_stock"`
}

// CreatePurchaseRequest alta de compra. El estado inicial es PAYEE y el stock
// entra al crearse.
type CreatePurchaseRequest struct {
	SupplierID string      `json:"supplier_id,omitempty"`
	Lines      []LineInput `json:"lines"`
	Notes      string      `json:"notes,omitempty"`
}

// CreateInvoiceRequest alta de factura. Falla completa si alguna línea de
// catálogo excede el stock disponible.
type CreateInvoiceRequest struct {
	CustomerID    string      `json:"customer_id,omitempty"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Lines         []LineInput `json:"lines"`
	Notes         string      `json:"notes,omitempty"`
}

// CreateQuoteRequest alta de cotización (sin efecto sobre stock).
type CreateQuoteRequest struct {
	CustomerID string      `json:"customer_id,omitempty"`
	Lines      []LineInput `json:"lines"`
	Notes      string      `json:"notes,omitempty"`
}

// CreateCreditNoteRequest alta de nota de crédito. Si InvoiceID no está vacío
// y Lines viene vacío, las líneas se copian de la factura (ReturnToStock=false).
type CreateCreditNoteRequest struct {
	CustomerID string                `json:"customer_id,omitempty"`
	InvoiceID  string                `json:"invoice_id,omitempty"`
	Lines      []CreditNoteLineInput `json:"lines,omitempty"`
	Notes      string                `json:"notes,omitempty"`
}

// UpdateStatusRequest cambio de estado de un documento.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ReplaceLinesRequest reemplazo total de líneas de un documento editable.
type ReplaceLinesRequest struct {
	Lines []LineInput `json:"lines"`
}

// ReplaceCreditNoteLinesRequest reemplazo total de líneas de una nota de crédito.
type ReplaceCreditNoteLinesRequest struct {
	Lines []CreditNoteLineInput `json:"lines"`
}
