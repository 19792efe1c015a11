package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo persistencia de notas de crédito y sus líneas.
type CreditNoteRepo struct {
	q Querier
}

func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

func (r *CreditNoteRepo) Create(n *entity.CreditNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	query := `
		INSERT INTO credit_notes
			(id, boutique_id, number, customer_id, invoice_id, status, subtotal, tax_total, grand_total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		n.ID, n.BoutiqueID, n.Number, nullIfEmpty(n.CustomerID), nullIfEmpty(n.InvoiceID), n.Status,
		n.Subtotal, n.TaxTotal, n.GrandTotal, n.Notes, n.CreatedBy, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert credit note: %w", err)
	}
	return nil
}

func (r *CreditNoteRepo) CreateLine(l *entity.CreditNoteLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO credit_note_lines
			(id, credit_note_id, kind, item_id, description, quantity, unit_price, tax_rate, line_total, return_to_stock, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.CreditNoteID, l.Kind, nullIfEmpty(l.ItemID), l.Description,
		l.Quantity, l.UnitPrice, l.TaxRate, l.LineTotal, l.ReturnToStock, l.Position,
	)
	if err != nil {
		return fmt.Errorf("insert credit note line: %w", err)
	}
	return nil
}

func (r *CreditNoteRepo) GetByID(boutiqueID, id string) (*entity.CreditNote, error) {
	query := `
		SELECT id, boutique_id, number, COALESCE(customer_id, ''), COALESCE(invoice_id, ''), status, subtotal, tax_total, grand_total, notes, created_by, created_at, updated_at
		FROM credit_notes WHERE id = $1 AND boutique_id = $2`
	var n entity.CreditNote
	err := r.q.QueryRow(context.Background(), query, id, boutiqueID).Scan(
		&n.ID, &n.BoutiqueID, &n.Number, &n.CustomerID, &n.InvoiceID, &n.Status,
		&n.Subtotal, &n.TaxTotal, &n.GrandTotal, &n.Notes, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit note: %w", err)
	}
	return &n, nil
}

func (r *CreditNoteRepo) GetLines(noteID string) ([]*entity.CreditNoteLine, error) {
	query := `
		SELECT id, credit_note_id, kind, COALESCE(item_id, ''), description, quantity, unit_price, tax_rate, line_total, return_to_stock, position
		FROM credit_note_lines WHERE credit_note_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, noteID)
	if err != nil {
		return nil, fmt.Errorf("list credit note lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.CreditNoteLine
	for rows.Next() {
		var l entity.CreditNoteLine
		if err := rows.Scan(&l.ID, &l.CreditNoteID, &l.Kind, &l.ItemID, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.TaxRate, &l.LineTotal, &l.ReturnToStock, &l.Position); err != nil {
			return nil, fmt.Errorf("scan credit note line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func (r *CreditNoteRepo) UpdateStatus(boutiqueID, id, status string) error {
	query := `UPDATE credit_notes SET status = $3, updated_at = now() WHERE id = $1 AND boutique_id = $2`
	tag, err := r.q.Exec(context.Background(), query, id, boutiqueID, status)
	if err != nil {
		return fmt.Errorf("update credit note status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CreditNoteRepo) UpdateTotals(boutiqueID, id string, subtotal, taxTotal, grandTotal decimal.Decimal) error {
	query := `UPDATE credit_notes SET subtotal = $3, tax_total = $4, grand_total = $5, updated_at = now() WHERE id = $1 AND boutique_id = $2`
	tag, err := r.q.Exec(context.Background(), query, id, boutiqueID, subtotal, taxTotal, grandTotal)
	if err != nil {
		return fmt.Errorf("update credit note totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CreditNoteRepo) DeleteLines(noteID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM credit_note_lines WHERE credit_note_id = $1`, noteID); err != nil {
		return fmt.Errorf("delete credit note lines: %w", err)
	}
	return nil
}

func (r *CreditNoteRepo) Delete(boutiqueID, id string) error {
	query := `
		DELETE FROM credit_note_lines
		WHERE credit_note_id IN (SELECT id FROM credit_notes WHERE id = $1 AND boutique_id = $2)`
	if _, err := r.q.Exec(context.Background(), query, id, boutiqueID); err != nil {
		return fmt.Errorf("delete credit note lines: %w", err)
	}
	tag, err := r.q.Exec(context.Background(), `DELETE FROM credit_notes WHERE id = $1 AND boutique_id = $2`, id, boutiqueID)
	if err != nil {
		return fmt.Errorf("delete credit note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
