package billing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseCreate_EntraStockYNumera(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 5, 10)

	purchase, lines, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 10, 4, 0.19)},
	})
	require.NoError(t, err)

	assert.Equal(t, "P-0001", purchase.Number)
	assert.Equal(t, entity.PurchaseStatusPaid, purchase.Status)
	require.Len(t, lines, 1)
	assert.True(t, purchase.Subtotal.Equal(lines[0].LineTotal))

	qty, _ := env.store.ItemQuantity("item-1")
	assert.Equal(t, int64(15), qty, "la compra debe entrar 10 unidades sobre las 5 existentes")
	assert.Equal(t, 1, env.store.MovementCount("item-1"))
}

func TestPurchaseCreate_LineaLibreNoMueveStock(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 5, 10)

	purchase, lines, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{
			catalogLine("item-1", 2, 4, 0),
			freeTextLine("transporte del pedido", 1, 30),
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	qty, _ := env.store.ItemQuantity("item-1")
	assert.Equal(t, int64(7), qty)
	assert.Equal(t, 1, env.store.MovementCount("item-1"),
		"solo la línea de catálogo genera movimiento")
	// 2×4 + 1×30
	assert.True(t, purchase.Subtotal.Equal(decimalFromInt(38)), "subtotal %s", purchase.Subtotal)
}

func TestPurchaseCreate_ArticuloInexistente_TodoRevierte(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 5, 10)

	_, _, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{
			catalogLine("item-1", 2, 4, 0),
			catalogLine("no-existe", 1, 4, 0),
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	qty, _ := env.store.ItemQuantity("item-1")
	assert.Equal(t, int64(5), qty, "la línea válida también debe revertirse")
	assert.Zero(t, env.store.MovementCount("item-1"))
}

func TestPurchaseCreate_NumeracionConcurrenteSinDuplicados(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 0, 10)

	const n = 10
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			purchase, _, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
				Lines: []dto.LineInput{catalogLine("item-1", 1, 4, 0)},
			})
			assert.NoError(t, err)
			numbers <- purchase.Number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for num := range numbers {
		assert.False(t, seen[num], "número duplicado: %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestPurchaseCreate_NumeracionIndependientePorBoutique(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 0, 10)
	env.seedItem("item-2", testOtherBoutique, 0, 10)

	p1, _, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 1, 4, 0)},
	})
	require.NoError(t, err)
	p2, _, err := env.purchases.Create(context.Background(), testOtherBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{catalogLine("item-2", 1, 4, 0)},
	})
	require.NoError(t, err)

	assert.Equal(t, "P-0001", p1.Number)
	assert.Equal(t, "P-0001", p2.Number, "cada boutique lleva su propio consecutivo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de estados y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseUpdateStatus_CancelarNoRevierteStock(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 0, 10)

	purchase, _, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 10, 4, 0)},
	})
	require.NoError(t, err)

	updated, err := env.purchases.UpdateStatus(context.Background(), testBoutique, testUser, purchase.ID, entity.PurchaseStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCancelled, updated.Status)

	qty, _ := env.store.ItemQuantity("item-1")
	assert.Equal(t, int64(10), qty, "anular la compra no toca el inventario")
}

func TestPurchaseUpdateStatus_TransicionInvalida(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 0, 10)

	purchase, _, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 1, 4, 0)},
	})
	require.NoError(t, err)
	_, err = env.purchases.UpdateStatus(context.Background(), testBoutique, testUser, purchase.ID, entity.PurchaseStatusCancelled)
	require.NoError(t, err)

	// ANNULEE es terminal.
	_, err = env.purchases.UpdateStatus(context.Background(), testBoutique, testUser, purchase.ID, entity.PurchaseStatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var transErr *domain.TransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, entity.PurchaseStatusCancelled, transErr.From)
	assert.Equal(t, entity.PurchaseStatusPaid, transErr.To)

	// Estados desconocidos se rechazan antes de tocar nada.
	_, err = env.purchases.UpdateStatus(context.Background(), testBoutique, testUser, purchase.ID, "INEXISTANT")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseDelete_SoloEstadoInicial(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 0, 10)

	purchase, _, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 1, 4, 0)},
	})
	require.NoError(t, err)

	// La compra nace PAYEE: ya no admite borrado.
	err = env.purchases.Delete(context.Background(), testBoutique, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, _, err = env.purchases.Get(context.Background(), testBoutique, purchase.ID)
	assert.NoError(t, err)
}

func TestPurchaseGet_OtraBoutiqueNoVeLaCompra(t *testing.T) {
	env := newBillingEnv()
	env.seedItem("item-1", testBoutique, 0, 10)

	purchase, _, err := env.purchases.Create(context.Background(), testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{catalogLine("item-1", 1, 4, 0)},
	})
	require.NoError(t, err)

	_, _, err = env.purchases.Get(context.Background(), testOtherBoutique, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"el mismo ID desde otra boutique debe comportarse como inexistente")
}
