package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// CreditNoteRepository define el puerto de persistencia para notas de crédito.
type CreditNoteRepository interface {
	Create(note *entity.CreditNote) error
	CreateLine(line *entity.CreditNoteLine) error
	GetByID(boutiqueID, id string) (*entity.CreditNote, error)
	GetLines(noteID string) ([]*entity.CreditNoteLine, error)
	UpdateStatus(boutiqueID, id, status string) error
	UpdateTotals(boutiqueID, id string, subtotal, taxTotal, grandTotal decimal.Decimal) error
	DeleteLines(noteID string) error
	Delete(boutiqueID, id string) error
}
