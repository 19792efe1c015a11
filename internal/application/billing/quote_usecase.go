package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// QuoteUseCase crea cotizaciones y gestiona su ciclo BROUILLON → ENVOYE →
// ACCEPTE/REFUSE (EXPIRE desde cualquier estado no terminal). Una cotización
// nunca mueve stock: la factura generada al convertirla es la que vende.
type QuoteUseCase struct {
	txRunner  TxRunner
	invoiceUC *InvoiceUseCase
	audit     ports.AuditSink
}

// NewQuoteUseCase construye el caso de uso. invoiceUC se usa para la conversión.
func NewQuoteUseCase(txRunner TxRunner, invoiceUC *InvoiceUseCase, audit ports.AuditSink) *QuoteUseCase {
	return &QuoteUseCase{txRunner: txRunner, invoiceUC: invoiceUC, audit: audit}
}

// Create registra la cotización en BROUILLON.
func (uc *QuoteUseCase) Create(ctx context.Context, boutiqueID, userID string, in dto.CreateQuoteRequest) (*entity.Quote, []*entity.QuoteLine, error) {
	if boutiqueID == "" || userID == "" || len(in.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		quote *entity.Quote
		lines []*entity.QuoteLine
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		built, err := buildLines(r.Items, boutiqueID, in.Lines)
		if err != nil {
			return err
		}
		seq, err := r.Sequences.Next(boutiqueID, entity.DocTypeQuote)
		if err != nil {
			return err
		}
		subtotal, taxTotal, grandTotal := computeTotals(built)

		quote = &entity.Quote{
			ID:         uuid.New().String(),
			BoutiqueID: boutiqueID,
			Number:     entity.FormatNumber(entity.DocTypeQuote, seq),
			CustomerID: in.CustomerID,
			Status:     entity.QuoteStatusDraft,
			Subtotal:   subtotal,
			TaxTotal:   taxTotal,
			GrandTotal: grandTotal,
			Notes:      in.Notes,
			CreatedBy:  userID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Quotes.Create(quote); err != nil {
			return err
		}
		lines = lines[:0]
		for i, l := range built {
			line := &entity.QuoteLine{
				ID:          uuid.New().String(),
				QuoteID:     quote.ID,
				Kind:        l.Kind,
				ItemID:      l.ItemID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxRate:     l.TaxRate,
				LineTotal:   l.LineTotal,
				Position:    i + 1,
			}
			if err := r.Quotes.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	uc.audit.DocumentEvent(boutiqueID, entity.DocTypeQuote, quote.Number, "", quote.Status, userID)
	return quote, lines, nil
}

// UpdateStatus valida la transición contra la tabla de la familia.
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, boutiqueID, userID, id, newStatus string) (*entity.Quote, error) {
	if !entity.KnownStatus(entity.DocTypeQuote, newStatus) {
		return nil, domain.ErrInvalidInput
	}
	var (
		quote      *entity.Quote
		fromStatus string
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		quote, err = r.Quotes.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if quote == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.DocTypeQuote, quote.Status, newStatus) {
			return &domain.TransitionError{DocType: entity.DocTypeQuote, From: quote.Status, To: newStatus}
		}
		if err := r.Quotes.UpdateStatus(boutiqueID, id, newStatus); err != nil {
			return err
		}
		fromStatus = quote.Status
		quote.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.DocumentEvent(boutiqueID, entity.DocTypeQuote, quote.Number, fromStatus, newStatus, userID)
	return quote, nil
}

// ReplaceLines sustituye todas las líneas de una cotización en BROUILLON y
// recalcula los totales en la misma transacción que el reemplazo.
func (uc *QuoteUseCase) ReplaceLines(ctx context.Context, boutiqueID, userID, id string, in dto.ReplaceLinesRequest) (*entity.Quote, []*entity.QuoteLine, error) {
	if len(in.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	var (
		quote *entity.Quote
		lines []*entity.QuoteLine
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		quote, err = r.Quotes.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if quote == nil {
			return domain.ErrNotFound
		}
		if quote.Status != entity.QuoteStatusDraft {
			return domain.ErrConflict
		}
		built, err := buildLines(r.Items, boutiqueID, in.Lines)
		if err != nil {
			return err
		}
		if err := r.Quotes.DeleteLines(quote.ID); err != nil {
			return err
		}
		lines = lines[:0]
		for i, l := range built {
			line := &entity.QuoteLine{
				ID:          uuid.New().String(),
				QuoteID:     quote.ID,
				Kind:        l.Kind,
				ItemID:      l.ItemID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxRate:     l.TaxRate,
				LineTotal:   l.LineTotal,
				Position:    i + 1,
			}
			if err := r.Quotes.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		subtotal, taxTotal, grandTotal := computeTotals(built)
		if err := r.Quotes.UpdateTotals(boutiqueID, quote.ID, subtotal, taxTotal, grandTotal); err != nil {
			return err
		}
		quote.Subtotal, quote.TaxTotal, quote.GrandTotal = subtotal, taxTotal, grandTotal
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return quote, lines, nil
}

// ConvertToInvoice crea una factura BROUILLON copiando las líneas tal cual.
// Solo desde ACCEPTE. La creación de la factura aplica sus propias salidas de
// stock y puede fallar por existencias insuficientes.
func (uc *QuoteUseCase) ConvertToInvoice(ctx context.Context, boutiqueID, userID, quoteID string) (*entity.Invoice, []*entity.InvoiceLine, error) {
	var req dto.CreateInvoiceRequest
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		quote, err := r.Quotes.GetByID(boutiqueID, quoteID)
		if err != nil {
			return err
		}
		if quote == nil {
			return domain.ErrNotFound
		}
		if quote.Status != entity.QuoteStatusAccepted {
			return domain.ErrConflict
		}
		quoteLines, err := r.Quotes.GetLines(quote.ID)
		if err != nil {
			return err
		}
		req = dto.CreateInvoiceRequest{
			CustomerID: quote.CustomerID,
			Notes:      quote.Notes,
			Lines:      make([]dto.LineInput, 0, len(quoteLines)),
		}
		for _, l := range quoteLines {
			req.Lines = append(req.Lines, dto.LineInput{
				Kind:        l.Kind,
				ItemID:      l.ItemID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxRate:     l.TaxRate,
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return uc.invoiceUC.Create(ctx, boutiqueID, userID, req)
}

// Delete elimina la cotización solo en BROUILLON.
func (uc *QuoteUseCase) Delete(ctx context.Context, boutiqueID, id string) error {
	return uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		quote, err := r.Quotes.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if quote == nil {
			return domain.ErrNotFound
		}
		if quote.Status != entity.QuoteStatusDraft {
			return domain.ErrConflict
		}
		return r.Quotes.Delete(boutiqueID, id)
	})
}

// Get obtiene la cotización con sus líneas.
func (uc *QuoteUseCase) Get(ctx context.Context, boutiqueID, id string) (*entity.Quote, []*entity.QuoteLine, error) {
	var (
		quote *entity.Quote
		lines []*entity.QuoteLine
	)
	err := uc.txRunner.RunBilling(ctx, func(r TxRepos) error {
		var err error
		quote, err = r.Quotes.GetByID(boutiqueID, id)
		if err != nil {
			return err
		}
		if quote == nil {
			return domain.ErrNotFound
		}
		lines, err = r.Quotes.GetLines(quote.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return quote, lines, nil
}
