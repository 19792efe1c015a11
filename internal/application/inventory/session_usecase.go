package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/repuestos-api/internal/application/ledger"
	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// SessionUseCase gestiona sesiones de inventario físico: abre la sesión
// congelando la cantidad teórica de cada artículo, registra conteos como área
// de staging (sin tocar el ledger) y, al validar, aplica una corrección por
// cada línea contada con diferencia, todo en una sola transacción.
type SessionUseCase struct {
	txRunner TxRunner
	audit    ports.AuditSink
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(txRunner TxRunner, audit ports.AuditSink) *SessionUseCase {
	return &SessionUseCase{txRunner: txRunner, audit: audit}
}

// CreateSession abre una sesión EN_COURS. itemIDs vacío = todos los artículos
// activos de la boutique. La cantidad actual de cada artículo queda como
// teórica; la física arranca sin contar.
func (uc *SessionUseCase) CreateSession(ctx context.Context, boutiqueID, userID string, itemIDs []string) (*entity.InventorySession, []*entity.InventoryLine, error) {
	if boutiqueID == "" || userID == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		session *entity.InventorySession
		lines   []*entity.InventoryLine
	)
	err := uc.txRunner.RunInventory(ctx, func(r TxRepos) error {
		var items []*entity.Item
		if len(itemIDs) == 0 {
			var err error
			items, err = r.Items.ListActive(boutiqueID)
			if err != nil {
				return err
			}
		} else {
			for _, id := range itemIDs {
				item, err := r.Items.GetByID(boutiqueID, id)
				if err != nil {
					return err
				}
				if item == nil {
					return domain.ErrNotFound
				}
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return domain.ErrInvalidInput
		}

		seq, err := r.Sequences.Next(boutiqueID, entity.DocTypeInventory)
		if err != nil {
			return err
		}
		session = &entity.InventorySession{
			ID:         uuid.New().String(),
			BoutiqueID: boutiqueID,
			Number:     entity.FormatNumber(entity.DocTypeInventory, seq),
			Status:     entity.SessionStatusInProgress,
			StartedAt:  now,
			CreatedBy:  userID,
		}
		if err := r.Sessions.CreateSession(session); err != nil {
			return err
		}
		lines = lines[:0]
		for _, item := range items {
			line := &entity.InventoryLine{
				ID:             uuid.New().String(),
				SessionID:      session.ID,
				ItemID:         item.ID,
				TheoreticalQty: item.Quantity,
				UpdatedAt:      now,
			}
			if err := r.Sessions.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	uc.audit.DocumentEvent(boutiqueID, entity.DocTypeInventory, session.Number, "", session.Status, userID)
	return session, lines, nil
}

// CountLine registra el conteo físico de una línea. Puede repetirse mientras
// la sesión siga EN_COURS; no interactúa con el ledger.
func (uc *SessionUseCase) CountLine(ctx context.Context, boutiqueID, sessionID, lineID string, physicalQty int64) (*entity.InventoryLine, error) {
	if physicalQty < 0 {
		return nil, domain.ErrInvalidInput
	}
	var line *entity.InventoryLine
	err := uc.txRunner.RunInventory(ctx, func(r TxRepos) error {
		session, err := r.Sessions.GetSession(boutiqueID, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Status != entity.SessionStatusInProgress {
			return domain.ErrSessionClosed
		}
		line, err = r.Sessions.GetLine(session.ID, lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		variance := physicalQty - line.TheoreticalQty
		line.PhysicalQty = &physicalQty
		line.Variance = &variance
		line.Counted = true
		line.UpdatedAt = time.Now()
		return r.Sessions.UpdateLine(line)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// SetStatus cierra la sesión. EN_COURS → VALIDE aplica una corrección de
// inventario por cada línea contada con diferencia distinta de cero (las no
// contadas se saltan: su teórico queda en pie) y persiste la diferencia
// agregada, todo con el cambio de estado en una sola transacción.
// EN_COURS → ANNULE descarta la sesión sin tocar el ledger.
func (uc *SessionUseCase) SetStatus(ctx context.Context, boutiqueID, userID, sessionID, newStatus string) (*entity.InventorySession, error) {
	if !entity.KnownStatus(entity.DocTypeInventory, newStatus) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var (
		session    *entity.InventorySession
		fromStatus string
		movements  []*entity.Movement
	)
	err := uc.txRunner.RunInventory(ctx, func(r TxRepos) error {
		var err error
		session, err = r.Sessions.GetSession(boutiqueID, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.DocTypeInventory, session.Status, newStatus) {
			return &domain.TransitionError{DocType: entity.DocTypeInventory, From: session.Status, To: newStatus}
		}

		movements = movements[:0]
		var totalVariance int64
		if newStatus == entity.SessionStatusValidated {
			sessionLines, err := r.Sessions.GetLines(session.ID)
			if err != nil {
				return err
			}
			for _, l := range sessionLines {
				if !l.Counted || l.Variance == nil {
					continue
				}
				totalVariance += *l.Variance
				if *l.Variance == 0 {
					continue
				}
				mov, err := ledger.Apply(r.ItemStock, r.Movements, ledger.ApplyInput{
					BoutiqueID: boutiqueID,
					ItemID:     l.ItemID,
					Kind:       entity.MovementKindINVENTORY,
					Delta:      *l.Variance,
					Reason:     "corrección por inventario físico",
					DocRef:     session.Number,
					ActorID:    userID,
					Now:        now,
				})
				if err != nil {
					return err
				}
				movements = append(movements, mov)
			}
		}

		fromStatus = session.Status
		session.Status = newStatus
		session.TotalVariance = totalVariance
		session.ClosedAt = &now
		return r.Sessions.CloseSession(session)
	})
	if err != nil {
		return nil, err
	}
	uc.audit.DocumentEvent(boutiqueID, entity.DocTypeInventory, session.Number, fromStatus, newStatus, userID)
	for _, m := range movements {
		uc.audit.MovementEvent(m.BoutiqueID, m.ItemID, m.Kind, m.Delta, m.QtyAfter, m.DocRef, m.ActorID)
	}
	return session, nil
}

// Get devuelve la sesión con sus líneas.
func (uc *SessionUseCase) Get(ctx context.Context, boutiqueID, sessionID string) (*entity.InventorySession, []*entity.InventoryLine, error) {
	var (
		session *entity.InventorySession
		lines   []*entity.InventoryLine
	)
	err := uc.txRunner.RunInventory(ctx, func(r TxRepos) error {
		var err error
		session, err = r.Sessions.GetSession(boutiqueID, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		lines, err = r.Sessions.GetLines(session.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return session, lines, nil
}
