package entity

import "fmt"

// Familias de documento numeradas por el asignador de consecutivos.
const (
	DocTypePurchase   = "PURCHASE"
	DocTypeInvoice    = "INVOICE"
	DocTypeQuote      = "QUOTE"
	DocTypeCreditNote = "CREDIT_NOTE"
	DocTypeInventory  = "INVENTORY"
)

// Prefijos de numeración por familia (heredados del sistema de origen).
var numberPrefixes = map[string]string{
	DocTypePurchase:   "P",
	DocTypeInvoice:    "F",
	DocTypeQuote:      "D",
	DocTypeCreditNote: "A",
	DocTypeInventory:  "I",
}

// FormatNumber arma el número visible del documento: P-0001, F-0023, etc.
func FormatNumber(docType string, n int64) string {
	prefix, ok := numberPrefixes[docType]
	if !ok {
		prefix = "X"
	}
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// Tipos de línea de documento. Una línea CATALOG referencia un Item del
// catálogo y puede mover stock; una FREE_TEXT solo lleva descripción y precio.
const (
	LineKindCatalog  = "CATALOG"
	LineKindFreeText = "FREE_TEXT"
)
