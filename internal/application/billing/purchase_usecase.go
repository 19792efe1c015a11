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

// PurchaseUseCase crea compras y gestiona su ciclo de estados.
// La creación entra stock por cada línea de catálogo en la misma transacción
// que la cabecera, las líneas y el consecutivo.
type PurchaseUseCase struct {
	txRunner TxRunner
	audit    ports.AuditSink
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner TxRunner, audit ports.AuditSink) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, audit: audit}
}

// Create registra la compra. Estado inicial PAYEE; el stock puede quedar en
// cualquier valor (las compras no validan existencias).
func (uc *PurchaseUseCase) Create(ctx context.Context, boutiqueID, userID string, in dto.CreatePurchaseRequest) (*entity.Purchase, []*entity.PurchaseLine, error) {
	if boutiqueID == "" || userID == "" || len(in.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		purchase  *entity.Purchase
		lines     []*entity.PurchaseLine
		movements []*entity.Movement
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		built, err := buildLines(r.Items, boutiqueID, in.Lines)
		if err != nil {
			return err
		}
		seq, err := r.Sequences.Next(boutiqueID, entity.DocTypePurchase)
		if err != nil {
			return err
		}
		number := entity.FormatNumber(entity.DocTypePurchase, seq)
		subtotal, taxTotal, grandTotal := computeTotals(built)

		purchase = &entity.Purchase{
			ID:         uuid.New().String(),
			BoutiqueID: boutiqueID,
			Number:     number,
			SupplierID: in.SupplierID,
			Status:     entity.PurchaseStatusPaid,
			Subtotal:   subtotal,
			TaxTotal:   taxTotal,
			GrandTotal: grandTotal,
			Notes:      in.Notes,
			CreatedBy:  userID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Purchases.Create(purchase); err != nil {
			return err
		}

		lines = lines[:0]
		movements = movements[:0]
		for i, l := range built {
			line := &entity.PurchaseLine{
				ID:          uuid.New().String(),
				PurchaseID:  purchase.ID,
				Kind:        l.Kind,
				ItemID:      l.ItemID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxRate:     l.TaxRate,
				LineTotal:   l.LineTotal,
				Position:    i + 1,
			}
			if err := r.Purchases.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)

			if l.Kind != entity.LineKindCatalog {
				continue
			}
			mov, err := ledger.Apply(r.ItemStock, r.Movements, ledger.ApplyInput{
				BoutiqueID: boutiqueID,
				ItemID:     l.ItemID,
				Kind:       entity.MovementKindIN,
				Delta:      l.Quantity,
				Reason:     "entrada por compra",
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

	uc.audit.DocumentEvent(boutiqueID, entity.DocTypePurchase, purchase.Number, "", purchase.Status, userID)
	for _, m := range movements {
		uc.audit.MovementEvent(m.BoutiqueID, m.ItemID, m.Kind, m.Delta, m.QtyAfter, m.DocRef, m.ActorID)
	}
	return purchase, lines, nil
}

// UpdateStatus valida la transición contra la tabla de la familia y persiste
// el nuevo estado. Cancelar no revierte movimientos ya registrados.
func (uc *PurchaseUseCase) UpdateStatus(ctx context.Context, boutiqueID, userID, id, newStatus string) (*entity.Purchase, error) {
	if !entity.KnownStatus(entity.DocTypePurchase, newStatus) {
		return nil, domain.ErrInvalidInput
	}
	var (
		purchase   *entity.Purchase
		fromStatus string
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		purchase, err = r.Purchases.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.DocTypePurchase, purchase.Status, newStatus) {
			return &domain.TransitionError{DocType: entity.DocTypePurchase, From: purchase.Status, To: newStatus}
		}
		if err := r.Purchases.UpdateStatus(boutiqueID, id, newStatus); err != nil {
			return err
		}
		fromStatus = purchase.Status
		purchase.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.DocumentEvent(boutiqueID, entity.DocTypePurchase, purchase.Number, fromStatus, newStatus, userID)
	return purchase, nil
}

// Delete elimina la compra solo en su estado inicial (EN_ATTENTE). Los
// movimientos previos no se revierten: el historial es inmutable.
func (uc *PurchaseUseCase) Delete(ctx context.Context, boutiqueID, id string) error {
	return uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		purchase, err := r.Purchases.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status != entity.PurchaseStatusPending {
			return domain.ErrConflict
		}
		return r.Purchases.Delete(boutiqueID, id)
	})
}

// Get devuelve la compra con sus líneas.
func (uc *PurchaseUseCase) Get(ctx context.Context, boutiqueID, id string) (*entity.Purchase, []*entity.PurchaseLine, error) {
	var (
		purchase *entity.Purchase
		lines    []*entity.PurchaseLine
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		purchase, err = r.Purchases.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		lines, err = r.Purchases.GetLines(purchase.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return purchase, lines, nil
}
