package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

// ApplyInput entrada para registrar un movimiento de stock.
type ApplyInput struct {
	BoutiqueID string
	ItemID     string
	Kind       string
	Delta      int64 // con signo; debe respetar la convención del tipo
	Reason     string
	DocRef     string // número del documento origen, vacío si manual
	ActorID    string
	Now        time.Time
}

// Apply es el único punto por el que cambia la cantidad de un artículo.
// Se ejecuta sobre repositorios atados a la transacción del caller:
//  1. bloquea la fila del artículo (SELECT FOR UPDATE) filtrando por boutique,
//  2. verifica pertenencia al tenant y convención de signo del tipo,
//  3. calcula after = before + delta, escribe la cantidad y registra
//     exactamente un movimiento con before/after capturados.
//
// Apply no impone stock no negativo: esa política pertenece al documento que
// llama (la facturación rechaza; compras y correcciones permiten cualquier valor).
func Apply(items repository.ItemStockRepository, movements repository.MovementRepository, in ApplyInput) (*entity.Movement, error) {
	if in.BoutiqueID == "" || in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidKind(in.Kind) || in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.KindAllowsDelta(in.Kind, in.Delta) {
		return nil, domain.ErrInvalidInput
	}

	item, err := items.GetForUpdate(in.BoutiqueID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	// Aplicar sobre un artículo de otra boutique es un defecto de programación,
	// no una condición de negocio: falla fuerte.
	if item.BoutiqueID != in.BoutiqueID {
		return nil, domain.ErrForbidden
	}

	before := item.Quantity
	after := before + in.Delta
	if err := items.UpdateQuantity(in.BoutiqueID, in.ItemID, after); err != nil {
		return nil, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	mov := &entity.Movement{
		ID:         uuid.New().String(),
		ItemID:     in.ItemID,
		BoutiqueID: in.BoutiqueID,
		Kind:       in.Kind,
		Delta:      in.Delta,
		QtyBefore:  before,
		QtyAfter:   after,
		Reason:     in.Reason,
		DocRef:     in.DocRef,
		ActorID:    in.ActorID,
		CreatedAt:  now,
	}
	if err := movements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
