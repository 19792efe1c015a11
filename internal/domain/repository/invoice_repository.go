package repository

import "github.com/jhoicas/repuestos-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	GetByID(boutiqueID, id string) (*entity.Invoice, error)
	GetLines(invoiceID string) ([]*entity.InvoiceLine, error)
	UpdateStatus(boutiqueID, id, status string) error
	Delete(boutiqueID, id string) error
}
