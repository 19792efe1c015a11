package repository

import "github.com/jhoicas/repuestos-api/internal/domain/entity"

// MovementFilter filtros opcionales para listar movimientos.
type MovementFilter struct {
	ItemID string // vacío = todos los artículos
	Kind   string // vacío = todos los tipos
	Limit  int
	Offset int
}

// MovementRepository define el puerto del libro de movimientos (append-only).
// No existen Update ni Delete: los movimientos son historia inmutable.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	List(boutiqueID string, filter MovementFilter) ([]*entity.Movement, error)
}
