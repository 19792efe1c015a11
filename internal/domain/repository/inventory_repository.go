package repository

import "github.com/jhoicas/repuestos-api/internal/domain/entity"

// InventoryRepository define el puerto de persistencia para sesiones de
// inventario físico y sus líneas de conteo.
type InventoryRepository interface {
	CreateSession(session *entity.InventorySession) error
	CreateLine(line *entity.InventoryLine) error
	GetSession(boutiqueID, id string) (*entity.InventorySession, error)
	GetLines(sessionID string) ([]*entity.InventoryLine, error)
	GetLine(sessionID, lineID string) (*entity.InventoryLine, error)
	// UpdateLine registra un conteo: cantidad física, diferencia y bandera counted.
	UpdateLine(line *entity.InventoryLine) error
	// CloseSession fija el estado final, la diferencia agregada y la fecha de cierre.
	CloseSession(session *entity.InventorySession) error
}
