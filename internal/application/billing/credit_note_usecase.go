package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/application/ledger"
	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// CreditNoteUseCase crea notas de crédito y gestiona su ciclo EN_ATTENTE →
// VALIDE → REMBOURSE. La creación no toca stock; al validar, cada línea de
// catálogo marcada ReturnToStock reingresa unidades en la misma transacción
// que el cambio de estado.
type CreditNoteUseCase struct {
	txRunner TxRunner
	audit    ports.AuditSink
}

// NewCreditNoteUseCase construye el caso de uso.
func NewCreditNoteUseCase(txRunner TxRunner, audit ports.AuditSink) *CreditNoteUseCase {
	return &CreditNoteUseCase{txRunner: txRunner, audit: audit}
}

// Create registra la nota en EN_ATTENTE. Si InvoiceID viene y Lines no, las
// líneas se copian de la factura con ReturnToStock en false.
func (uc *CreditNoteUseCase) Create(ctx context.Context, boutiqueID, userID string, in dto.CreateCreditNoteRequest) (*entity.CreditNote, []*entity.CreditNoteLine, error) {
	if boutiqueID == "" || userID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 && in.InvoiceID == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		note  *entity.CreditNote
		lines []*entity.CreditNoteLine
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		lineInputs := in.Lines
		customerID := in.CustomerID
		if in.InvoiceID != "" {
			invoice, err := r.Invoices.GetByID(boutiqueID, in.InvoiceID)
			if err != nil {
				return err
			}
			if invoice == nil {
				return domain.ErrNotFound
			}
			if customerID == "" {
				customerID = invoice.CustomerID
			}
			if len(lineInputs) == 0 {
				invLines, err := r.Invoices.GetLines(invoice.ID)
				if err != nil {
					return err
				}
				lineInputs = make([]dto.CreditNoteLineInput, 0, len(invLines))
				for _, l := range invLines {
					lineInputs = append(lineInputs, dto.CreditNoteLineInput{
						LineInput: dto.LineInput{
							Kind:        l.Kind,
							ItemID:      l.ItemID,
							Description: l.Description,
							Quantity:    l.Quantity,
							UnitPrice:   l.UnitPrice,
							TaxRate:     l.TaxRate,
						},
						ReturnToStock: false,
					})
				}
			}
		}

		plain := make([]dto.LineInput, 0, len(lineInputs))
		for _, l := range lineInputs {
			plain = append(plain, l.LineInput)
		}
		built, err := buildLines(r.Items, boutiqueID, plain)
		if err != nil {
			return err
		}
		seq, err := r.Sequences.Next(boutiqueID, entity.DocTypeCreditNote)
		if err != nil {
			return err
		}
		subtotal, taxTotal, grandTotal := computeTotals(built)

		note = &entity.CreditNote{
			ID:         uuid.New().String(),
			BoutiqueID: boutiqueID,
			Number:     entity.FormatNumber(entity.DocTypeCreditNote, seq),
			CustomerID: customerID,
			InvoiceID:  in.InvoiceID,
			Status:     entity.CreditNoteStatusPending,
			Subtotal:   subtotal,
			TaxTotal:   taxTotal,
			GrandTotal: grandTotal,
			Notes:      in.Notes,
			CreatedBy:  userID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.CreditNotes.Create(note); err != nil {
			return err
		}
		lines = lines[:0]
		for i, l := range built {
			line := &entity.CreditNoteLine{
				ID:            uuid.New().String(),
				CreditNoteID:  note.ID,
				Kind:          l.Kind,
				ItemID:        l.ItemID,
				Description:   l.Description,
				Quantity:      l.Quantity,
				UnitPrice:     l.UnitPrice,
				TaxRate:       l.TaxRate,
				LineTotal:     l.LineTotal,
				ReturnToStock: lineInputs[i].ReturnToStock && l.Kind == entity.LineKindCatalog,
				Position:      i + 1,
			}
			if err := r.CreditNotes.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	uc.audit.DocumentEvent(boutiqueID, entity.DocTypeCreditNote, note.Number, "", note.Status, userID)
	return note, lines, nil
}

// UpdateStatus valida la transición. El paso a VALIDE aplica las devoluciones
// a stock dentro de la misma transacción que el cambio de estado.
func (uc *CreditNoteUseCase) UpdateStatus(ctx context.Context, boutiqueID, userID, id, newStatus string) (*entity.CreditNote, error) {
	if !entity.KnownStatus(entity.DocTypeCreditNote, newStatus) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var (
		note       *entity.CreditNote
		fromStatus string
		movements  []*entity.Movement
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		note, err = r.CreditNotes.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if note == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.DocTypeCreditNote, note.Status, newStatus) {
			return &domain.TransitionError{DocType: entity.DocTypeCreditNote, From: note.Status, To: newStatus}
		}

		movements = movements[:0]
		if newStatus == entity.CreditNoteStatusValidated {
			noteLines, err := r.CreditNotes.GetLines(note.ID)
			if err != nil {
				return err
			}
			for _, l := range noteLines {
				if l.Kind != entity.LineKindCatalog || !l.ReturnToStock {
					continue
				}
				mov, err := ledger.Apply(r.ItemStock, r.Movements, ledger.ApplyInput{
					BoutiqueID: boutiqueID,
					ItemID:     l.ItemID,
					Kind:       entity.MovementKindRETURN,
					Delta:      l.Quantity,
					Reason:     "devolución por nota de crédito",
					DocRef:     note.Number,
					ActorID:    userID,
					Now:        now,
				})
				if err != nil {
					return err
				}
				movements = append(movements, mov)
			}
		}

		if err := r.CreditNotes.UpdateStatus(boutiqueID, id, newStatus); err != nil {
			return err
		}
		fromStatus = note.Status
		note.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.DocumentEvent(boutiqueID, entity.DocTypeCreditNote, note.Number, fromStatus, newStatus, userID)
	for _, m := range movements {
		uc.audit.MovementEvent(m.BoutiqueID, m.ItemID, m.Kind, m.Delta, m.QtyAfter, m.DocRef, m.ActorID)
	}
	return note, nil
}

// ReplaceLines sustituye todas las líneas mientras la nota siga EN_ATTENTE y
// recalcula los totales en la misma transacción.
func (uc *CreditNoteUseCase) ReplaceLines(ctx context.Context, boutiqueID, userID, id string, in dto.ReplaceCreditNoteLinesRequest) (*entity.CreditNote, []*entity.CreditNoteLine, error) {
	if len(in.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	var (
		note  *entity.CreditNote
		lines []*entity.CreditNoteLine
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		note, err = r.CreditNotes.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if note == nil {
			return domain.ErrNotFound
		}
		if note.Status != entity.CreditNoteStatusPending {
			return domain.ErrConflict
		}
		plain := make([]dto.LineInput, 0, len(in.Lines))
		for _, l := range in.Lines {
			plain = append(plain, l.LineInput)
		}
		built, err := buildLines(r.Items, boutiqueID, plain)
		if err != nil {
			return err
		}
		if err := r.CreditNotes.DeleteLines(note.ID); err != nil {
			return err
		}
		lines = lines[:0]
		for i, l := range built {
			line := &entity.CreditNoteLine{
				ID:            uuid.New().String(),
				CreditNoteID:  note.ID,
				Kind:          l.Kind,
				ItemID:        l.ItemID,
				Description:   l.Description,
				Quantity:      l.Quantity,
				UnitPrice:     l.UnitPrice,
				TaxRate:       l.TaxRate,
				LineTotal:     l.LineTotal,
				ReturnToStock: in.Lines[i].ReturnToStock && l.Kind == entity.LineKindCatalog,
				Position:      i + 1,
			}
			if err := r.CreditNotes.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		subtotal, taxTotal, grandTotal := computeTotals(built)
		if err := r.CreditNotes.UpdateTotals(boutiqueID, note.ID, subtotal, taxTotal, grandTotal); err != nil {
			return err
		}
		note.Subtotal, note.TaxTotal, note.GrandTotal = subtotal, taxTotal, grandTotal
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return note, lines, nil
}

// Delete elimina la nota solo en EN_ATTENTE.
func (uc *CreditNoteUseCase) Delete(ctx context.Context, boutiqueID, id string) error {
	return uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		note, err := r.CreditNotes.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if note == nil {
			return domain.ErrNotFound
		}
		if note.Status != entity.CreditNoteStatusPending {
			return domain.ErrConflict
		}
		return r.CreditNotes.Delete(boutiqueID, id)
	})
}

// Get obtiene la nota de crédito con sus líneas.
func (uc *CreditNoteUseCase) Get(ctx context.Context, boutiqueID, id string) (*entity.CreditNote, []*entity.CreditNoteLine, error) {
	var (
		note  *entity.CreditNote
		lines []*entity.CreditNoteLine
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		note, err = r.CreditNotes.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if note == nil {
			return domain.ErrNotFound
		}
		lines, err = r.CreditNotes.GetLines(note.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return note, lines, nil
}
