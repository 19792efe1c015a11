package ports

// AuditSink recibe cada transición de documento y cada movimiento de stock.
// Es best-effort: las implementaciones no retornan error y nunca deben
// bloquear ni revertir la transacción de negocio que reporta el evento.
type AuditSink interface {
	DocumentEvent(boutiqueID, docType, number, fromStatus, toStatus, actorID string)
	MovementEvent(boutiqueID, itemID, kind string, delta, qtyAfter int64, docRef, actorID string)
}

// NopAuditSink descarta todos los eventos. Útil en tests.
type NopAuditSink struct{}

func (NopAuditSink) DocumentEvent(_, _, _, _, _, _ string)                  {}
func (NopAuditSink) MovementEvent(_, _, _ string, _, _ int64, _, _ string) {}
