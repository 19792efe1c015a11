package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repuestos-api/internal/application/billing"
	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/application/inventory"
	"github.com/jhoicas/repuestos-api/internal/application/ledger"
	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
	"github.com/jhoicas/repuestos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Conservación: la suma de los deltas del libro reconstruye la existencia
// ──────────────────────────────────────────────────────────────────────────────

// TestLibro_ConservacionSobreSecuenciaMixta encadena compra, factura, ajuste
// manual y corrección por inventario físico sobre el mismo artículo, y
// verifica que el libro de movimientos conserva la cantidad: la suma de los
// deltas es exactamente final − inicial, y cada asiento encaja con el
// anterior sin huecos.
func TestLibro_ConservacionSobreSecuenciaMixta(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	audit := ports.NopAuditSink{}

	purchaseUC := billing.NewPurchaseUseCase(runner, audit)
	invoiceUC := billing.NewInvoiceUseCase(runner, audit)
	adjustUC := ledger.NewAdjustmentUseCase(runner, audit)
	sessionUC := inventory.NewSessionUseCase(runner, audit)

	const itemID = "item-libro"
	const initialQty = int64(5)
	store.PutItem(entity.Item{
		ID:         itemID,
		BoutiqueID: testBoutique,
		SKU:        "SKU-" + itemID,
		Name:       "Artículo " + itemID,
		Quantity:   initialQty,
		SalePrice:  decimalFromInt(100),
		Active:     true,
	})

	// Compra: +10 → 15.
	_, _, err := purchaseUC.Create(ctx, testBoutique, testUser, dto.CreatePurchaseRequest{
		Lines: []dto.LineInput{catalogLine(itemID, 10, 40, 0)},
	})
	require.NoError(t, err)

	// Factura: −4 → 11.
	_, _, err = invoiceUC.Create(ctx, testBoutique, testUser, dto.CreateInvoiceRequest{
		Lines: []dto.LineInput{catalogLine(itemID, 4, 100, 0.19)},
	})
	require.NoError(t, err)

	// Ajuste manual: −2 → 9.
	_, err = adjustUC.Adjust(ctx, ledger.AdjustmentInput{
		BoutiqueID: testBoutique,
		ItemID:     itemID,
		Delta:      -2,
		Reason:     "merma en bodega",
		ActorID:    testUser,
	})
	require.NoError(t, err)

	// Inventario físico: teórico 9, contado 6 → corrección −3 → 6.
	session, lines, err := sessionUC.CreateSession(ctx, testBoutique, testUser, []string{itemID})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	_, err = sessionUC.CountLine(ctx, testBoutique, session.ID, lines[0].ID, 6)
	require.NoError(t, err)
	_, err = sessionUC.SetStatus(ctx, testBoutique, testUser, session.ID, entity.SessionStatusValidated)
	require.NoError(t, err)

	finalQty, ok := store.ItemQuantity(itemID)
	require.True(t, ok)
	assert.Equal(t, int64(6), finalQty)

	movements, err := memory.NewMovementRepository(store).List(testBoutique, repository.MovementFilter{ItemID: itemID})
	require.NoError(t, err)
	require.Len(t, movements, 4, "un asiento por cada operación con efecto sobre stock")

	// Cada asiento respeta su propio invariante y encadena con el siguiente
	// (listado más reciente primero).
	var sum int64
	prevAfter := finalQty
	for _, m := range movements {
		assert.Equal(t, m.QtyBefore+m.Delta, m.QtyAfter, "asiento %s", m.Kind)
		assert.Equal(t, prevAfter, m.QtyAfter, "el libro no tiene huecos entre asientos")
		prevAfter = m.QtyBefore
		sum += m.Delta
	}
	assert.Equal(t, initialQty, prevAfter, "el asiento más antiguo parte de la existencia inicial")
	assert.Equal(t, finalQty-initialQty, sum, "Σ deltas = final − inicial")

	kinds := make([]string, 0, len(movements))
	for _, m := range movements {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(t, []string{
		entity.MovementKindINVENTORY,
		entity.MovementKindADJUST,
		entity.MovementKindOUT,
		entity.MovementKindIN,
	}, kinds)
}
