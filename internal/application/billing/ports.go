package billing

import (
	"context"

	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción para los casos de uso
// de documentos. ItemStock se entrega únicamente para delegarlo a ledger.Apply:
// ningún caso de uso escribe cantidades por su cuenta.
type TxRepos struct {
	Items       repository.ItemRepository
	ItemStock   repository.ItemStockRepository
	Movements   repository.MovementRepository
	Sequences   repository.SequenceRepository
	Purchases   repository.PurchaseRepository
	Invoices    repository.InvoiceRepository
	Quotes      repository.QuoteRepository
	CreditNotes repository.CreditNoteRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con los repositorios
// de documentos atados a esa tx. Commit si fn retorna nil; rollback si no.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(r TxRepos) error) error
}
