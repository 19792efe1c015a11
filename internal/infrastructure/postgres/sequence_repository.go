package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna números consecutivos por boutique y tipo de documento.
// El UPSERT atómico garantiza números sin huecos ni duplicados bajo concurrencia;
// si la transacción que lo llama hace rollback, el número se descarta con ella.
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador de (boutique, tipo de documento).
func (r *SequenceRepo) Next(boutiqueID, docType string) (int64, error) {
	query := `
		INSERT INTO document_counters (boutique_id, doc_type, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (boutique_id, doc_type)
		DO UPDATE SET last_number = document_counters.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, boutiqueID, docType).Scan(&n); err != nil {
		return 0, fmt.Errorf("next document number: %w", err)
	}
	return n, nil
}
