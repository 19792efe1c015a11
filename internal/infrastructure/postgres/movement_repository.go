package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo persistencia del libro de movimientos. Solo INSERT y SELECT:
// la tabla es append-only.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create registra una entrada del libro.
func (r *MovementRepo) Create(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements
			(id, item_id, boutique_id, kind, delta, qty_before, qty_after, reason, doc_ref, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ItemID, m.BoutiqueID, m.Kind, m.Delta, m.QtyBefore, m.QtyAfter,
		m.Reason, nullIfEmpty(m.DocRef), m.ActorID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List devuelve los movimientos de la boutique, más recientes primero.
func (r *MovementRepo) List(boutiqueID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, item_id, boutique_id, kind, delta, qty_before, qty_after, reason, COALESCE(doc_ref, ''), actor_id, created_at
		FROM stock_movements
		WHERE boutique_id = $1`
	args := []any{boutiqueID}
	if f.ItemID != "" {
		args = append(args, f.ItemID)
		query += fmt.Sprintf(" AND item_id = $%d", len(args))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.BoutiqueID, &m.Kind, &m.Delta,
			&m.QtyBefore, &m.QtyAfter, &m.Reason, &m.DocRef, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
