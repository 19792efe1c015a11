package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo persistencia de sesiones de inventario físico y sus líneas.
type InventoryRepo struct {
	q Querier
}

func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

func (r *InventoryRepo) CreateSession(s *entity.InventorySession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_sessions
			(id, boutique_id, number, status, total_variance, started_at, closed_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.BoutiqueID, s.Number, s.Status, s.TotalVariance, s.StartedAt, s.ClosedAt, s.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory session: %w", err)
	}
	return nil
}

func (r *InventoryRepo) CreateLine(l *entity.InventoryLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_lines
			(id, session_id, item_id, theoretical_qty, physical_qty, variance, counted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.SessionID, l.ItemID, l.TheoreticalQty, l.PhysicalQty, l.Variance, l.Counted, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory line: %w", err)
	}
	return nil
}

func (r *InventoryRepo) GetSession(boutiqueID, id string) (*entity.InventorySession, error) {
	query := `
		SELECT id, boutique_id, number, status, total_variance, started_at, closed_at, created_by
		FROM inventory_sessions WHERE id = $1 AND boutique_id = $2`
	var s entity.InventorySession
	err := r.q.QueryRow(context.Background(), query, id, boutiqueID).Scan(
		&s.ID, &s.BoutiqueID, &s.Number, &s.Status, &s.TotalVariance, &s.StartedAt, &s.ClosedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory session: %w", err)
	}
	return &s, nil
}

func (r *InventoryRepo) GetLines(sessionID string) ([]*entity.InventoryLine, error) {
	query := `
		SELECT id, session_id, item_id, theoretical_qty, physical_qty, variance, counted, updated_at
		FROM inventory_lines WHERE session_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list inventory lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.InventoryLine
	for rows.Next() {
		var l entity.InventoryLine
		if err := rows.Scan(&l.ID, &l.SessionID, &l.ItemID, &l.TheoreticalQty,
			&l.PhysicalQty, &l.Variance, &l.Counted, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func (r *InventoryRepo) GetLine(sessionID, lineID string) (*entity.InventoryLine, error) {
	query := `
		SELECT id, session_id, item_id, theoretical_qty, physical_qty, variance, counted, updated_at
		FROM inventory_lines WHERE id = $1 AND session_id = $2`
	var l entity.InventoryLine
	err := r.q.QueryRow(context.Background(), query, lineID, sessionID).Scan(
		&l.ID, &l.SessionID, &l.ItemID, &l.TheoreticalQty, &l.PhysicalQty, &l.Variance, &l.Counted, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory line: %w", err)
	}
	return &l, nil
}

func (r *InventoryRepo) UpdateLine(l *entity.InventoryLine) error {
	query := `
		UPDATE inventory_lines
		SET physical_qty = $3, variance = $4, counted = $5, updated_at = now()
		WHERE id = $1 AND session_id = $2`
	tag, err := r.q.Exec(context.Background(), query, l.ID, l.SessionID, l.PhysicalQty, l.Variance, l.Counted)
	if err != nil {
		return fmt.Errorf("update inventory line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) CloseSession(s *entity.InventorySession) error {
	query := `
		UPDATE inventory_sessions
		SET status = $3, total_variance = $4, closed_at = $5
		WHERE id = $1 AND boutique_id = $2`
	tag, err := r.q.Exec(context.Background(), query, s.ID, s.BoutiqueID, s.Status, s.TotalVariance, s.ClosedAt)
	if err != nil {
		return fmt.Errorf("close inventory session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
