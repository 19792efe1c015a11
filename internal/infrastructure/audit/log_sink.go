package audit

import (
	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/pkg/logger"
)

var _ ports.AuditSink = (*LogSink)(nil)

// LogSink emite la pista de auditoría como eventos estructurados del logger.
// Los casos de uso lo notifican después del commit, así que cada evento
// corresponde a un cambio ya persistido.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) DocumentEvent(boutiqueID, docType, number, fromStatus, toStatus, actorID string) {
	s.log.Info().
		Str("audit", "document").
		Str("boutique_id", boutiqueID).
		Str("doc_type", docType).
		Str("number", number).
		Str("from_status", fromStatus).
		Str("to_status", toStatus).
		Str("actor_id", actorID).
		Msg("transición de documento")
}

func (s *LogSink) MovementEvent(boutiqueID, itemID, kind string, delta, qtyAfter int64, docRef, actorID string) {
	s.log.Info().
		Str("audit", "movement").
		Str("boutique_id", boutiqueID).
		Str("item_id", itemID).
		Str("kind", kind).
		Int64("delta", delta).
		Int64("qty_after", qtyAfter).
		Str("doc_ref", docRef).
		Str("actor_id", actorID).
		Msg("movimiento de stock")
}
