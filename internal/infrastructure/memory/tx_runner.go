package memory

import (
	"context"

	"github.com/jhoicas/repuestos-api/internal/application/billing"
	"github.com/jhoicas/repuestos-api/internal/application/inventory"
	"github.com/jhoicas/repuestos-api/internal/application/ledger"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner    = (*TxRunner)(nil)
	_ billing.TxRunner   = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)

	_ repository.ItemRepository       = itemRepo{}
	_ repository.ItemStockRepository  = itemRepo{}
	_ repository.MovementRepository   = movementRepo{}
	_ repository.SequenceRepository   = sequenceRepo{}
	_ repository.PurchaseRepository   = purchaseRepo{}
	_ repository.InvoiceRepository    = invoiceRepo{}
	_ repository.QuoteRepository      = quoteRepo{}
	_ repository.CreditNoteRepository = creditNoteRepo{}
	_ repository.InventoryRepository  = inventoryRepo{}
)

// TxRunner transaccional en memoria: serializa con el mutex del Store y, si el
// callback falla, restaura la instantánea tomada al inicio. Misma disciplina
// commit-o-rollback que el runner de PostgreSQL.
type TxRunner struct {
	s *Store
}

func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) inTx(fn func() error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *TxRunner) Run(_ context.Context, fn func(ledger.TxRepos) error) error {
	return r.inTx(func() error {
		return fn(ledger.TxRepos{
			Items:     itemRepo{s: r.s},
			Movements: movementRepo{s: r.s},
		})
	})
}

func (r *TxRunner) RunBilling(_ context.Context, fn func(billing.TxRepos) error) error {
	return r.inTx(func() error {
		items := itemRepo{s: r.s}
		return fn(billing.TxRepos{
			Items:       items,
			ItemStock:   items,
			Movements:   movementRepo{s: r.s},
			Sequences:   sequenceRepo{s: r.s},
			Purchases:   purchaseRepo{s: r.s},
			Invoices:    invoiceRepo{s: r.s},
			Quotes:      quoteRepo{s: r.s},
			CreditNotes: creditNoteRepo{s: r.s},
		})
	})
}

func (r *TxRunner) RunInventory(_ context.Context, fn func(inventory.TxRepos) error) error {
	return r.inTx(func() error {
		items := itemRepo{s: r.s}
		return fn(inventory.TxRepos{
			Items:     items,
			ItemStock: items,
			Movements: movementRepo{s: r.s},
			Sequences: sequenceRepo{s: r.s},
			Sessions:  inventoryRepo{s: r.s},
		})
	})
}
