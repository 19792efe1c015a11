package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// QuoteRepository define el puerto de persistencia para cotizaciones.
// DeleteLines existe para la operación de reemplazo total de líneas: las
// líneas son inmutables salvo por esa operación explícita.
type QuoteRepository interface {
	Create(quote *entity.Quote) error
	CreateLine(line *entity.QuoteLine) error
	GetByID(boutiqueID, id string) (*entity.Quote, error)
	GetLines(quoteID string) ([]*entity.QuoteLine, error)
	UpdateStatus(boutiqueID, id, status string) error
	UpdateTotals(boutiqueID, id string, subtotal, taxTotal, grandTotal decimal.Decimal) error
	DeleteLines(quoteID string) error
	Delete(boutiqueID, id string) error
}
