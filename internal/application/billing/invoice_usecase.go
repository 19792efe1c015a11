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

// InvoiceUseCase crea facturas y gestiona su ciclo de estados. La creación
// descuenta stock por cada línea de catálogo; si alguna línea excede las
// existencias la transacción completa se revierte (ninguna línea se aplica).
type InvoiceUseCase struct {
	txRunner TxRunner
	audit    ports.AuditSink
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner TxRunner, audit ports.AuditSink) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, audit: audit}
}

// Create registra la factura en BROUILLON y aplica las salidas de stock.
// La venta es el único camino que bloquea stock insuficiente.
func (uc *InvoiceUseCase) Create(ctx context.Context, boutiqueID, userID string, in dto.CreateInvoiceRequest) (*entity.Invoice, []*entity.InvoiceLine, error) {
	if boutiqueID == "" || userID == "" || len(in.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		invoice   *entity.Invoice
		lines     []*entity.InvoiceLine
		movements []*entity.Movement
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		built, err := buildLines(r.Items, boutiqueID, in.Lines)
		if err != nil {
			return err
		}
		seq, err := r.Sequences.Next(boutiqueID, entity.DocTypeInvoice)
		if err != nil {
			return err
		}
		number := entity.FormatNumber(entity.DocTypeInvoice, seq)
		subtotal, taxTotal, grandTotal := computeTotals(built)

		invoice = &entity.Invoice{
			ID:            uuid.New().String(),
			BoutiqueID:    boutiqueID,
			Number:        number,
			CustomerID:    in.CustomerID,
			Status:        entity.InvoiceStatusDraft,
			PaymentMethod: in.PaymentMethod,
			Subtotal:      subtotal,
			TaxTotal:      taxTotal,
			GrandTotal:    grandTotal,
			Notes:         in.Notes,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Invoices.Create(invoice); err != nil {
			return err
		}

		lines = lines[:0]
		movements = movements[:0]
		for i, l := range built {
			line := &entity.InvoiceLine{
				ID:          uuid.New().String(),
				InvoiceID:   invoice.ID,
				Kind:        l.Kind,
				ItemID:      l.ItemID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxRate:     l.TaxRate,
				LineTotal:   l.LineTotal,
				Position:    i + 1,
			}
			if err := r.Invoices.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)

			if l.Kind != entity.LineKindCatalog {
				continue
			}
			// Bloquea la fila y verifica disponibilidad antes de la salida.
			// La política de no-negatividad vive aquí, no en el ledger.
			item, err := r.ItemStock.GetForUpdate(boutiqueID, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			if item.Quantity < l.Quantity {
				return &domain.InsufficientStockError{
					ItemID:    l.ItemID,
					Requested: l.Quantity,
					Available: item.Quantity,
				}
			}
			mov, err := ledger.Apply(r.ItemStock, r.Movements, ledger.ApplyInput{
				BoutiqueID: boutiqueID,
				ItemID:     l.ItemID,
				Kind:       entity.MovementKindOUT,
				Delta:      -l.Quantity,
				Reason:     "salida por venta",
				DocRef:     number,
				ActorID:    userID,
				Now:        now,
			})
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	uc.audit.DocumentEvent(boutiqueID, entity.DocTypeInvoice, invoice.Number, "", invoice.Status, userID)
	for _, m := range movements {
		uc.audit.MovementEvent(m.BoutiqueID, m.ItemID, m.Kind, m.Delta, m.QtyAfter, m.DocRef, m.ActorID)
	}
	return invoice, lines, nil
}

// UpdateStatus valida la transición contra la tabla de la familia.
// Anular una factura no devuelve stock: la devolución es una nota de crédito.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, boutiqueID, userID, id, newStatus string) (*entity.Invoice, error) {
	if !entity.KnownStatus(entity.DocTypeInvoice, newStatus) {
		return nil, domain.ErrInvalidInput
	}
	var (
		invoice    *entity.Invoice
		fromStatus string
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		invoice, err = r.Invoices.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.DocTypeInvoice, invoice.Status, newStatus) {
			return &domain.TransitionError{DocType: entity.DocTypeInvoice, From: invoice.Status, To: newStatus}
		}
		if err := r.Invoices.UpdateStatus(boutiqueID, id, newStatus); err != nil {
			return err
		}
		fromStatus = invoice.Status
		invoice.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.DocumentEvent(boutiqueID, entity.DocTypeInvoice, invoice.Number, fromStatus, newStatus, userID)
	return invoice, nil
}

// Delete elimina la factura solo en BROUILLON, sin revertir movimientos.
func (uc *InvoiceUseCase) Delete(ctx context.Context, boutiqueID, id string) error {
	return uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		invoice, err := r.Invoices.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if invoice.Status != entity.InvoiceStatusDraft {
			return domain.ErrConflict
		}
		return r.Invoices.Delete(boutiqueID, id)
	})
}

// Get devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, boutiqueID, id string) (*entity.Invoice, []*entity.InvoiceLine, error) {
	var (
		invoice *entity.Invoice
		lines   []*entity.InvoiceLine
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		invoice, err = r.Invoices.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		lines, err = r.Invoices.GetLines(invoice.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, lines, nil
}
