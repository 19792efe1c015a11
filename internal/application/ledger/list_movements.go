package ledger

import (
	"context"

	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

// ListMovementsUseCase consulta el historial de movimientos de una boutique.
type ListMovementsUseCase struct {
	movements repository.MovementRepository
}

// NewListMovementsUseCase construye el caso de uso.
func NewListMovementsUseCase(movements repository.MovementRepository) *ListMovementsUseCase {
	return &ListMovementsUseCase{movements: movements}
}

// List devuelve los movimientos de la boutique, filtrables por artículo y tipo.
func (uc *ListMovementsUseCase) List(ctx context.Context, boutiqueID string, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if boutiqueID == "" {
		return nil, domain.ErrInvalidInput
	}
	if filter.Kind != "" && !entity.ValidKind(filter.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return uc.movements.List(boutiqueID, filter)
}
