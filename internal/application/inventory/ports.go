package inventory

import (
	"context"

	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción para las sesiones de
// inventario físico. ItemStock se entrega solo para delegarlo a ledger.Apply
// al validar la sesión.
type TxRepos struct {
	Items     repository.ItemRepository
	ItemStock repository.ItemStockRepository
	Movements repository.MovementRepository
	Sequences repository.SequenceRepository
	Sessions  repository.InventoryRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con los repositorios
// atados a esa tx. Commit si fn retorna nil; rollback en caso contrario.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(r TxRepos) error) error
}
