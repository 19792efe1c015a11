package billing_test

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repuestos-api/internal/application/billing"
	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/infrastructure/memory"
)

const (
	testBoutique      = "boutique-1"
	testOtherBoutique = "boutique-2"
	testUser          = "user-1"
)

// billingEnv arma el backend en memoria con todos los casos de uso de
// documentos sobre el mismo runner.
type billingEnv struct {
	store     *memory.Store
	purchases *billing.PurchaseUseCase
	invoices  *billing.InvoiceUseCase
	quotes    *billing.QuoteUseCase
	notes     *billing.CreditNoteUseCase
}

func newBillingEnv() *billingEnv {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	audit := ports.NopAuditSink{}
	invoiceUC := billing.NewInvoiceUseCase(runner, audit)
	return &billingEnv{
		store:     store,
		purchases: billing.NewPurchaseUseCase(runner, audit),
		invoices:  invoiceUC,
		quotes:    billing.NewQuoteUseCase(runner, invoiceUC, audit),
		notes:     billing.NewCreditNoteUseCase(runner, audit),
	}
}

func (e *billingEnv) seedItem(id, boutiqueID string, qty int64, price int64) {
	e.store.PutItem(entity.Item{
		ID:         id,
		BoutiqueID: boutiqueID,
		SKU:        "SKU-" + id,
		Name:       "Pastilla de freno",
		Quantity:   qty,
		SalePrice:  decimal.NewFromInt(price),
		CostPrice:  decimal.NewFromInt(price / 2),
		Active:     true,
	})
}

func decimalFromInt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func catalogLine(itemID string, qty int64, price, taxRate float64) dto.LineInput {
	return dto.LineInput{
		Kind:      entity.LineKindCatalog,
		ItemID:    itemID,
		Quantity:  qty,
		UnitPrice: decimal.NewFromFloat(price),
		TaxRate:   decimal.NewFromFloat(taxRate),
	}
}

func freeTextLine(desc string, qty int64, price float64) dto.LineInput {
	return dto.LineInput{
		Kind:        entity.LineKindFreeText,
		Description: desc,
		Quantity:    qty,
		UnitPrice:   decimal.NewFromFloat(price),
	}
}
