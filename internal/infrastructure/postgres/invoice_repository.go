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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo persistencia de facturas y sus líneas.
type InvoiceRepo struct {
	q Querier
}

func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices
			(id, boutique_id, number, customer_id, status, payment_method, subtotal, tax_total, grand_total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.BoutiqueID, inv.Number, nullIfEmpty(inv.CustomerID), inv.Status, inv.PaymentMethod,
		inv.Subtotal, inv.TaxTotal, inv.GrandTotal, inv.Notes, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateLine(l *entity.InvoiceLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines
			(id, invoice_id, kind, item_id, description, quantity, unit_price, tax_rate, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.InvoiceID, l.Kind, nullIfEmpty(l.ItemID), l.Description,
		l.Quantity, l.UnitPrice, l.TaxRate, l.LineTotal, l.Position,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(boutiqueID, id string) (*entity.Invoice, error) {
	query := `
		SELECT id, boutique_id, number, COALESCE(customer_id, ''), status, payment_method, subtotal, tax_total, grand_total, notes, created_by, created_at, updated_at
		FROM invoices WHERE id = $1 AND boutique_id = $2`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id, boutiqueID).Scan(
		&inv.ID, &inv.BoutiqueID, &inv.Number, &inv.CustomerID, &inv.Status, &inv.PaymentMethod,
		&inv.Subtotal, &inv.TaxTotal, &inv.GrandTotal, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, kind, COALESCE(item_id, ''), description, quantity, unit_price, tax_rate, line_total, position
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Kind, &l.ItemID, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.TaxRate, &l.LineTotal, &l.Position); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func (r *InvoiceRepo) UpdateStatus(boutiqueID, id, status string) error {
	query := `UPDATE invoices SET status = $3, updated_at = now() WHERE id = $1 AND boutique_id = $2`
	tag, err := r.q.Exec(context.Background(), query, id, boutiqueID, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) Delete(boutiqueID, id string) error {
	query := `
		DELETE FROM invoice_lines
		WHERE invoice_id IN (SELECT id FROM invoices WHERE id = $1 AND boutique_id = $2)`
	if _, err := r.q.Exec(context.Background(), query, id, boutiqueID); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1 AND boutique_id = $2`, id, boutiqueID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
