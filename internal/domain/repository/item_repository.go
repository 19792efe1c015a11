package repository

import "github.com/jhoicas/repuestos-api/internal/domain/entity"

// ItemRepository define el puerto de lectura/alta de artículos del catálogo.
// Toda consulta va filtrada por boutique.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(boutiqueID, id string) (*entity.Item, error)
	ListActive(boutiqueID string) ([]*entity.Item, error)
}

// ItemStockRepository es la única vía de escritura sobre Item.Quantity.
// Solo el paquete ledger consume este puerto; ningún otro componente puede
// modificar la cantidad de un artículo.
type ItemStockRepository interface {
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE) dentro de
	// la transacción activa, filtrando por boutique.
	GetForUpdate(boutiqueID, itemID string) (*entity.Item, error)
	// UpdateQuantity escribe la nueva cantidad en existencia.
	UpdateQuantity(boutiqueID, itemID string, quantity int64) error
}
