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

var (
	_ repository.ItemRepository      = (*ItemRepo)(nil)
	_ repository.ItemStockRepository = (*ItemRepo)(nil)
)

// ItemRepo implementación sobre PostgreSQL (usable con pool o tx).
// Implementa también ItemStockRepository: GetForUpdate y UpdateQuantity solo
// se consumen desde el ledger.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, boutique_id, sku, name, quantity, reorder_point, sale_price, cost_price, active, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.BoutiqueID, &it.SKU, &it.Name, &it.Quantity,
		&it.ReorderPoint, &it.SalePrice, &it.CostPrice, &it.Active, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un artículo nuevo.
func (r *ItemRepo) Create(item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.BoutiqueID, item.SKU, item.Name, item.Quantity,
		item.ReorderPoint, item.SalePrice, item.CostPrice, item.Active,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo de la boutique.
func (r *ItemRepo) GetByID(boutiqueID, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND boutique_id = $2`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, id, boutiqueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// ListActive lista los artículos activos de la boutique.
func (r *ItemRepo) ListActive(boutiqueID string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE boutique_id = $1 AND active ORDER BY sku`
	rows, err := r.q.Query(context.Background(), query, boutiqueID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE) para
// serializar el read-then-write de cantidad entre transacciones concurrentes.
func (r *ItemRepo) GetForUpdate(boutiqueID, itemID string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND boutique_id = $2 FOR UPDATE`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, itemID, boutiqueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return it, nil
}

// UpdateQuantity escribe la nueva cantidad en existencia.
func (r *ItemRepo) UpdateQuantity(boutiqueID, itemID string, quantity int64) error {
	query := `UPDATE items SET quantity = $3, updated_at = now() WHERE id = $1 AND boutique_id = $2`
	tag, err := r.q.Exec(context.Background(), query, itemID, boutiqueID, quantity)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
