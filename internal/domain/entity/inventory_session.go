package entity

import "time"

// InventorySession es una sesión de conteo físico. Congela la cantidad teórica
// de cada artículo al abrirse; al validarse aplica las diferencias al stock en
// una sola transacción y queda de solo lectura.
type InventorySession struct {
	ID            string
	BoutiqueID    string
	Number        string
	Status        string
	TotalVariance int64
	StartedAt     time.Time
	ClosedAt      *time.Time
	CreatedBy     string
}

// InventoryLine una línea de conteo por artículo. PhysicalQty y Variance son
// nulos hasta que el artículo se cuenta; el conteo puede repetirse mientras la
// sesión siga EN_COURS.
type InventoryLine struct {
	ID             string
	SessionID      string
	ItemID         string
	TheoreticalQty int64
	PhysicalQty    *int64
	Variance       *int64 // física − teórica
	Counted        bool
	UpdatedAt      time.Time
}
