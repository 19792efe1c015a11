package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Creación y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceCreate_DescuentaStock(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 15, 10)

	invoice, lines, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 5, 10, 0.19)},
	})
	require.NoError(t, err)

	assert.Equal(t, "F-0001", invoice.Number)
	assert.Equal(t, entity.InvoiceStatusDraft, invoice.Status)
	require.Len(t, lines, 1)

	qty, _ := env.store.ItemQuantity("item-1")
	assert.Equal(t, int64(10), qty)
	assert.Equal(t, 1, env.store.MovementCount("item-1"))
}

func TestInvoiceCreate_StockInsuficiente_TodoRevierte(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 15, 10)
	env.seedItem("item-2", testBoutique, 3, 10)

	// La primera línea alcanza; la segunda pide 20 de 3. Nada debe aplicarse.
	_, _, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{
			catalogLine("item-1", 5, 10, 0),
			catalogLine("item-2", 20, 10, 0),
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "item-2", stockErr.ItemID)
	assert.Equal(t, int64(20), stockErr.Requested)
	assert.Equal(t, int64(3), stockErr.Available)
	assert.Equal(t, int64(17), stockErr.Shortfall())

	qty1, _ := env.store.ItemQuantity("item-1")
	qty2, _ := env.store.ItemQuantity("item-2")
	assert.Equal(t, int64(15), qty1, "la línea válida debe revertirse con el resto")
	assert.Equal(t, int64(3), qty2)
	assert.Zero(t, env.store.MovementCount("item-1"))
	assert.Zero(t, env.store.MovementCount("item-2"))
}

func TestInvoiceCreate_PedirExactamenteElStockDisponible(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 15, 10)

	// 15 de 15 pasa; el stock queda en cero, nunca negativo por venta.
	_, _, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 15, 10, 0)},
	})
	require.NoError(t, err)

	qty, _ := env.store.ItemQuantity("item-1")
	assert.Equal(t, int64(0), qty)

	_, _, err = env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 1, 10, 0)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestInvoiceCreate_PrecioPorDefectoDelCatalogo(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 10, 25)

	_, lines, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 2, 0, 0)},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(decimalFromInt(25)),
		"sin precio explícito se usa el precio de venta del artículo")
	assert.True(t, lines[0].LineTotal.Equal(decimalFromInt(50)))
}

func TestInvoiceCreate_ValidacionDeLineas(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 10, 10)

	cases := []struct {
		name  string
		lines []dto.LineInput
	}{
		{"sin líneas", nil},
		{"cantidad cero", []dto.LineInput{catalogLine("item-1", 0, 10, 0)}},
		{"catálogo sin item", []dto.LineInput{{Kind: entity.LineKindCatalog, Quantity: 1}}},
		{"texto libre sin descripción", []dto.LineInput{{Kind: entity.LineKindFreeText, Quantity: 1}}},
		{"texto libre con item", func() []dto.LineInput {
			l := freeTextLine("mano de obra", 1, 10)
			l.ItemID = "item-1"
			return []dto.LineInput{l}
		}()},
		{"kind desconocido", []dto.LineInput{{Kind: "BUNDLE", Quantity: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{Lines: tc.lines})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de estados y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceUpdateStatus_AnularNoDevuelveStock(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 15, 10)

	invoice, _, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 5, 10, 0)},
	})
	require.NoError(t, err)

	_, err = env.invoices.UpdateStatus(context.Background(), testBoutique, testUser, invoice.ID, entity.InvoiceStatusCancelled)
	require.NoError(t, err)

	qty, _ := env.store.ItemQuantity("item-1")
	assert.Equal(t, int64(10), qty,
		"anular no restituye stock: la devolución es una nota de crédito")
}

func TestInvoiceUpdateStatus_CaminoDePago(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 15, 10)

	invoice, _, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 1, 10, 0)},
	})
	require.NoError(t, err)

	for _, status := range []string{
		entity.InvoiceStatusPending,
		entity.InvoiceStatusPartiallyPaid,
		entity.InvoiceStatusPaid,
	} {
		_, err = env.invoices.UpdateStatus(context.Background(), testBoutique, testUser, invoice.ID, status)
		require.NoError(t, err, "transición a %s", status)
	}

	// PAYEE no vuelve atrás.
	_, err = env.invoices.UpdateStatus(context.Background(), testBoutique, testUser, invoice.ID, entity.InvoiceStatusDraft)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestInvoiceDelete_SoloBrouillon(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 15, 10)

	invoice, _, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 5, 10, 0)},
	})
	require.NoError(t, err)

	require.NoError(t, env.invoices.Delete(context.Background(), testBoutique, invoice.ID))

	_, _, err = env.invoices.Get(context.Background(), testBoutique, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	qty, _ := env.store.ItemQuantity("item-1")
	assert.Equal(t, int64(10), qty, "borrar la factura no revierte la salida registrada")
	assert.Equal(t, 1, env.store.MovementCount("item-1"), "el historial sobrevive al borrado")
}

func TestInvoiceDelete_EstadoAvanzadoRechazado(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 15, 10)

	invoice, _, err := env.invoices.Create(context.Background(), testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 1, 10, 0)},
	})
	require.NoError(t, err)
	_, err = env.invoices.UpdateStatus(context.Background(), testBoutique, testUser, invoice.ID, entity.InvoiceStatusPending)
	require.NoError(t, err)

	err = env.invoices.Delete(context.Background(), testBoutique, invoice.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
