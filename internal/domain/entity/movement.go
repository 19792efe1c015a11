package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementKindIN        = "IN"         // entrada (compra)
	MovementKindOUT       = "OUT"        // salida (venta)
	MovementKindADJUST    = "ADJUSTMENT" // ajuste manual, cualquier signo
	MovementKindINVENTORY = "INVENTORY"  // corrección por inventario físico
	MovementKindRETURN    = "RETURN"     // devolución a stock (nota de crédito)
	MovementKindTRANSFER  = "TRANSFER"   // traslado entre boutiques
)

// Movement es una entrada inmutable del libro de stock: un cambio de cantidad sobre un artículo.
// Invariante: QtyAfter = QtyBefore + Delta, y QtyAfter coincide con Item.Quantity
// en el instante del registro. Nunca se actualiza ni se borra.
type Movement struct {
	ID         string
	ItemID     string
	BoutiqueID string
	Kind       string
	Delta      int64 // con signo: positivo entrada, negativo salida
	QtyBefore  int64
	QtyAfter   int64
	Reason     string
	DocRef     string // número del documento que originó el movimiento, vacío si manual
	ActorID    string
	CreatedAt  time.Time
}

// ValidKind indica si kind pertenece al conjunto cerrado de tipos de movimiento.
func ValidKind(kind string) bool {
	switch kind {
	case MovementKindIN, MovementKindOUT, MovementKindADJUST,
		MovementKindINVENTORY, MovementKindRETURN, MovementKindTRANSFER:
		return true
	}
	return false
}

// KindAllowsDelta valida la convención de signo por tipo:
// IN y RETURN no negativos, OUT no positivo; el resto acepta cualquier signo.
func KindAllowsDelta(kind string, delta int64) bool {
	switch kind {
	case MovementKindIN, MovementKindRETURN:
		return delta >= 0
	case MovementKindOUT:
		return delta <= 0
	default:
		return true
	}
}
