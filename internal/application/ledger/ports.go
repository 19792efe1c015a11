package ledger

import (
	"context"

	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción, suficientes para
// aplicar movimientos de stock.
type TxRepos struct {
	Items     repository.ItemStockRepository
	Movements repository.MovementRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Commit si fn retorna nil; rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
