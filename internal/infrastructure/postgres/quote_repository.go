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

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo persistencia de cotizaciones y sus líneas.
type QuoteRepo struct {
	q Querier
}

func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

func (r *QuoteRepo) Create(qt *entity.Quote) error {
	if qt.ID == "" {
		qt.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quotes
			(id, boutique_id, number, customer_id, status, subtotal, tax_total, grand_total, notes, valid_until, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		qt.ID, qt.BoutiqueID, qt.Number, nullIfEmpty(qt.CustomerID), qt.Status,
		qt.Subtotal, qt.TaxTotal, qt.GrandTotal, qt.Notes, qt.ValidUntil,
		qt.CreatedBy, qt.CreatedAt, qt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

func (r *QuoteRepo) CreateLine(l *entity.QuoteLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quote_lines
			(id, quote_id, kind, item_id, description, quantity, unit_price, tax_rate, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.QuoteID, l.Kind, nullIfEmpty(l.ItemID), l.Description,
		l.Quantity, l.UnitPrice, l.TaxRate, l.LineTotal, l.Position,
	)
	if err != nil {
		return fmt.Errorf("insert quote line: %w", err)
	}
	return nil
}

func (r *QuoteRepo) GetByID(boutiqueID, id string) (*entity.Quote, error) {
	query := `
		SELECT id, boutique_id, number, COALESCE(customer_id, ''), status, subtotal, tax_total, grand_total, notes, valid_until, created_by, created_at, updated_at
		FROM quotes WHERE id = $1 AND boutique_id = $2`
	var qt entity.Quote
	err := r.q.QueryRow(context.Background(), query, id, boutiqueID).Scan(
		&qt.ID, &qt.BoutiqueID, &qt.Number, &qt.CustomerID, &qt.Status,
		&qt.Subtotal, &qt.TaxTotal, &qt.GrandTotal, &qt.Notes, &qt.ValidUntil,
		&qt.CreatedBy, &qt.CreatedAt, &qt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return &qt, nil
}

func (r *QuoteRepo) GetLines(quoteID string) ([]*entity.QuoteLine, error) {
	query := `
		SELECT id, quote_id, kind, COALESCE(item_id, ''), description, quantity, unit_price, tax_rate, line_total, position
		FROM quote_lines WHERE quote_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.QuoteLine
	for rows.Next() {
		var l entity.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.Kind, &l.ItemID, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.TaxRate, &l.LineTotal, &l.Position); err != nil {
			return nil, fmt.Errorf("scan quote line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func (r *QuoteRepo) UpdateStatus(boutiqueID, id, status string) error {
	query := `UPDATE quotes SET status = $3, updated_at = now() WHERE id = $1 AND boutique_id = $2`
	tag, err := r.q.Exec(context.Background(), query, id, boutiqueID, status)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *QuoteRepo) UpdateTotals(boutiqueID, id string, subtotal, taxTotal, grandTotal decimal.Decimal) error {
	query := `UPDATE quotes SET subtotal = $3, tax_total = $4, grand_total = $5, updated_at = now() WHERE id = $1 AND boutique_id = $2`
	tag, err := r.q.Exec(context.Background(), query, id, boutiqueID, subtotal, taxTotal, grandTotal)
	if err != nil {
		return fmt.Errorf("update quote totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *QuoteRepo) DeleteLines(quoteID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM quote_lines WHERE quote_id = $1`, quoteID); err != nil {
		return fmt.Errorf("delete quote lines: %w", err)
	}
	return nil
}

func (r *QuoteRepo) Delete(boutiqueID, id string) error {
	query := `
		DELETE FROM quote_lines
		WHERE quote_id IN (SELECT id FROM quotes WHERE id = $1 AND boutique_id = $2)`
	if _, err := r.q.Exec(context.Background(), query, id, boutiqueID); err != nil {
		return fmt.Errorf("delete quote lines: %w", err)
	}
	tag, err := r.q.Exec(context.Background(), `DELETE FROM quotes WHERE id = $1 AND boutique_id = $2`, id, boutiqueID)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
