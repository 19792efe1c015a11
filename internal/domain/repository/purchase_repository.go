package repository

import "github.com/jhoicas/repuestos-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateLine(line *entity.PurchaseLine) error
	GetByID(boutiqueID, id string) (*entity.Purchase, error)
	GetLines(purchaseID string) ([]*entity.PurchaseLine, error)
	UpdateStatus(boutiqueID, id, status string) error
	Delete(boutiqueID, id string) error
}
