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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo persistencia de compras y sus líneas.
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchases
			(id, boutique_id, number, supplier_id, status, subtotal, tax_total, grand_total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.BoutiqueID, p.Number, nullIfEmpty(p.SupplierID), p.Status,
		p.Subtotal, p.TaxTotal, p.GrandTotal, p.Notes, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) CreateLine(l *entity.PurchaseLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_lines
			(id, purchase_id, kind, item_id, description, quantity, unit_price, tax_rate, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.PurchaseID, l.Kind, nullIfEmpty(l.ItemID), l.Description,
		l.Quantity, l.UnitPrice, l.TaxRate, l.LineTotal, l.Position,
	)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) GetByID(boutiqueID, id string) (*entity.Purchase, error) {
	query := `
		SELECT id, boutique_id, number, COALESCE(supplier_id, ''), status, subtotal, tax_total, grand_total, notes, created_by, created_at, updated_at
		FROM purchases WHERE id = $1 AND boutique_id = $2`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id, boutiqueID).Scan(
		&p.ID, &p.BoutiqueID, &p.Number, &p.SupplierID, &p.Status,
		&p.Subtotal, &p.TaxTotal, &p.GrandTotal, &p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

func (r *PurchaseRepo) GetLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_id, kind, COALESCE(item_id, ''), description, quantity, unit_price, tax_rate, line_total, position
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.Kind, &l.ItemID, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.TaxRate, &l.LineTotal, &l.Position); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func (r *PurchaseRepo) UpdateStatus(boutiqueID, id, status string) error {
	query := `UPDATE purchases SET status = $3, updated_at = now() WHERE id = $1 AND boutique_id = $2`
	tag, err := r.q.Exec(context.Background(), query, id, boutiqueID, status)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseRepo) Delete(boutiqueID, id string) error {
	query := `
		DELETE FROM purchase_lines
		WHERE purchase_id IN (SELECT id FROM purchases WHERE id = $1 AND boutique_id = $2)`
	if _, err := r.q.Exec(context.Background(), query, id, boutiqueID); err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}
	tag, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1 AND boutique_id = $2`, id, boutiqueID)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
