package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// AdjustmentUseCase registra ajustes manuales de stock (tipo ADJUSTMENT) en su
// propia transacción. A diferencia de la facturación, un ajuste admite
// cualquier signo y puede dejar la existencia en negativo.
type AdjustmentUseCase struct {
	txRunner TxRunner
	audit    ports.AuditSink
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner TxRunner, audit ports.AuditSink) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner, audit: audit}
}

// AdjustmentInput entrada para un ajuste manual.
type AdjustmentInput struct {
	BoutiqueID string
	ItemID     string
	Delta      int64
	Reason     string
	ActorID    string
}

// Adjust aplica el ajuste dentro de una transacción y reporta el movimiento al audit sink.
func (uc *AdjustmentUseCase) Adjust(ctx context.Context, in AdjustmentInput) (*entity.Movement, error) {
	if in.Delta == 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		var err error
		mov, err = Apply(r.Items, r.Movements, ApplyInput{
			BoutiqueID: in.BoutiqueID,
			ItemID:     in.ItemID,
			Kind:       entity.MovementKindADJUST,
			Delta:      in.Delta,
			Reason:     in.Reason,
			ActorID:    in.ActorID,
			Now:        time.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.MovementEvent(mov.BoutiqueID, mov.ItemID, mov.Kind, mov.Delta, mov.QtyAfter, mov.DocRef, mov.ActorID)
	return mov, nil
}
