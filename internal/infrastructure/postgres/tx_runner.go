package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/repuestos-api/internal/application/billing"
	"github.com/jhoicas/repuestos-api/internal/application/inventory"
	"github.com/jhoicas/repuestos-api/internal/application/ledger"
)

// Ensure TxRunner implementa los puertos de transacción de cada caso de uso.
var (
	_ ledger.TxRunner    = (*TxRunner)(nil)
	_ billing.TxRunner   = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Begin, repos atados a la tx, fn, y Commit o Rollback según el resultado.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run implementa ledger.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(ledger.TxRepos) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(ledger.TxRepos{
			Items:     NewItemRepository(q),
			Movements: NewMovementRepository(q),
		})
	})
}

// RunBilling implementa billing.TxRunner: repos de documentos e inventario
// atados a la misma tx, para que cabecera, líneas, consecutivo y movimientos
// se confirmen o reviertan juntos.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(billing.TxRepos) error) error {
	return r.inTx(ctx, func(q Querier) error {
		items := NewItemRepository(q)
		return fn(billing.TxRepos{
			Items:       items,
			ItemStock:   items,
			Movements:   NewMovementRepository(q),
			Sequences:   NewSequenceRepository(q),
			Purchases:   NewPurchaseRepository(q),
			Invoices:    NewInvoiceRepository(q),
			Quotes:      NewQuoteRepository(q),
			CreditNotes: NewCreditNoteRepository(q),
		})
	})
}

// RunInventory implementa inventory.TxRunner.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(inventory.TxRepos) error) error {
	return r.inTx(ctx, func(q Querier) error {
		items := NewItemRepository(q)
		return fn(inventory.TxRepos{
			Items:     items,
			ItemStock: items,
			Movements: NewMovementRepository(q),
			Sequences: NewSequenceRepository(q),
			Sessions:  NewInventoryRepository(q),
		})
	})
}
