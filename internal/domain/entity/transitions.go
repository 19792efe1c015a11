package entity

// Estados por familia de documento. Los códigos se conservan tal cual se
// persisten en los datos del sistema de origen.
const (
	PurchaseStatusPending   = "EN_ATTENTE"
	PurchaseStatusPaid      = "PAYEE"
	PurchaseStatusCancelled = "ANNULEE"

	InvoiceStatusDraft         = "BROUILLON"
	InvoiceStatusPending       = "EN_ATTENTE"
	InvoiceStatusPartiallyPaid = "PARTIELLEMENT_PAYEE"
	InvoiceStatusPaid          = "PAYEE"
	InvoiceStatusCancelled     = "ANNULEE"

	QuoteStatusDraft    = "BROUILLON"
	QuoteStatusSent     = "ENVOYE"
	QuoteStatusAccepted = "ACCEPTE"
	QuoteStatusRefused  = "REFUSE"
	QuoteStatusExpired  = "EXPIRE"

	CreditNoteStatusPending   = "EN_ATTENTE"
	CreditNoteStatusValidated = "VALIDE"
	CreditNoteStatusRefunded  = "REMBOURSE"

	SessionStatusInProgress = "EN_COURS"
	SessionStatusValidated  = "VALIDE"
	SessionStatusCancelled  = "ANNULE"
)

// Tablas de transición: conjunto cerrado por familia. Toda transición que no
// aparezca aquí se rechaza antes de cualquier escritura.
var (
	purchaseTransitions = map[string][]string{
		PurchaseStatusPending: {PurchaseStatusPaid, PurchaseStatusCancelled},
		PurchaseStatusPaid:    {PurchaseStatusCancelled},
	}

	invoiceTransitions = map[string][]string{
		InvoiceStatusDraft:         {InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
		InvoiceStatusPending:       {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
		InvoiceStatusPartiallyPaid: {InvoiceStatusPaid, InvoiceStatusCancelled},
		InvoiceStatusPaid:          {InvoiceStatusCancelled},
	}

	quoteTransitions = map[string][]string{
		QuoteStatusDraft: {QuoteStatusSent, QuoteStatusExpired},
		QuoteStatusSent:  {QuoteStatusAccepted, QuoteStatusRefused, QuoteStatusExpired},
	}

	creditNoteTransitions = map[string][]string{
		CreditNoteStatusPending:   {CreditNoteStatusValidated},
		CreditNoteStatusValidated: {CreditNoteStatusRefunded},
	}

	sessionTransitions = map[string][]string{
		SessionStatusInProgress: {SessionStatusValidated, SessionStatusCancelled},
	}
)

var transitionsByDocType = map[string]map[string][]string{
	DocTypePurchase:   purchaseTransitions,
	DocTypeInvoice:    invoiceTransitions,
	DocTypeQuote:      quoteTransitions,
	DocTypeCreditNote: creditNoteTransitions,
	DocTypeInventory:  sessionTransitions,
}

// CanTransition consulta la tabla de la familia. Estados desconocidos o
// terminales no tienen salidas.
func CanTransition(docType, from, to string) bool {
	table, ok := transitionsByDocType[docType]
	if !ok {
		return false
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// KnownStatus indica si status existe en la familia (como origen o destino).
func KnownStatus(docType, status string) bool {
	table, ok := transitionsByDocType[docType]
	if !ok {
		return false
	}
	if _, ok := table[status]; ok {
		return true
	}
	for _, targets := range table {
		for _, t := range targets {
			if t == status {
				return true
			}
		}
	}
	return false
}
