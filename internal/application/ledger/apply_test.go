package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repuestos-api/internal/application/ledger"
	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
	"github.com/jhoicas/repuestos-api/internal/infrastructure/memory"
)

func repositoryFilter(kind string) repository.MovementFilter {
	return repository.MovementFilter{Kind: kind}
}

const (
	testBoutique      = "boutique-1"
	testOtherBoutique = "boutique-2"
	testActor         = "user-1"
)

func seedItem(store *memory.Store, id string, qty int64) {
	store.PutItem(entity.Item{
		ID:         id,
		BoutiqueID: testBoutique,
		SKU:        "SKU-" + id,
		Name:       "Filtro de aceite",
		Quantity:   qty,
		SalePrice:  decimal.NewFromInt(10),
		Active:     true,
	})
}

func applyOnce(t *testing.T, runner *memory.TxRunner, in ledger.ApplyInput) (*entity.Movement, error) {
	t.Helper()
	var mov *entity.Movement
	err := runner.Run(context.Background(), func(r ledger.TxRepos) error {
		var err error
		mov, err = ledger.Apply(r.Items, r.Movements, in)
		return err
	})
	return mov, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_CapturaAntesYDespues(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	seedItem(store, "item-1", 5)

	mov, err := applyOnce(t, runner, ledger.ApplyInput{
		BoutiqueID: testBoutique,
		ItemID:     "item-1",
		Kind:       entity.MovementKindIN,
		Delta:      10,
		Reason:     "entrada por compra",
		ActorID:    testActor,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), mov.QtyBefore)
	assert.Equal(t, int64(15), mov.QtyAfter)
	assert.Equal(t, mov.QtyBefore+mov.Delta, mov.QtyAfter,
		"el movimiento debe conservar after = before + delta")

	qty, ok := store.ItemQuantity("item-1")
	require.True(t, ok)
	assert.Equal(t, int64(15), qty, "la cantidad del artículo debe coincidir con QtyAfter")
}

func TestApply_ConvencionDeSignosPorTipo(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	seedItem(store, "item-1", 50)

	cases := []struct {
		name  string
		kind  string
		delta int64
		ok    bool
	}{
		{"IN positivo", entity.MovementKindIN, 3, true},
		{"IN negativo rechazado", entity.MovementKindIN, -3, false},
		{"OUT negativo", entity.MovementKindOUT, -3, true},
		{"OUT positivo rechazado", entity.MovementKindOUT, 3, false},
		{"RETURN negativo rechazado", entity.MovementKindRETURN, -1, false},
		{"ADJUSTMENT negativo", entity.MovementKindADJUST, -5, true},
		{"INVENTORY positivo", entity.MovementKindINVENTORY, 2, true},
		{"delta cero rechazado", entity.MovementKindADJUST, 0, false},
		{"tipo desconocido", "REGULARIZACION", 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := applyOnce(t, runner, ledger.ApplyInput{
				BoutiqueID: testBoutique,
				ItemID:     "item-1",
				Kind:       tc.kind,
				Delta:      tc.delta,
				Reason:     "prueba",
				ActorID:    testActor,
			})
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			}
		})
	}
}

func TestApply_ArticuloDeOtraBoutique_NotFound(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	seedItem(store, "item-1", 5)

	_, err := applyOnce(t, runner, ledger.ApplyInput{
		BoutiqueID: testOtherBoutique,
		ItemID:     "item-1",
		Kind:       entity.MovementKindIN,
		Delta:      1,
		Reason:     "prueba",
		ActorID:    testActor,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"el filtro por boutique debe ocultar artículos de otros tenants")
	assert.Zero(t, store.MovementCount("item-1"))
}

func TestApply_ErrorEnLaTransaccionRevierteTodo(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	seedItem(store, "item-1", 5)

	errBoom := assert.AnError
	err := runner.Run(context.Background(), func(r ledger.TxRepos) error {
		_, err := ledger.Apply(r.Items, r.Movements, ledger.ApplyInput{
			BoutiqueID: testBoutique,
			ItemID:     "item-1",
			Kind:       entity.MovementKindIN,
			Delta:      10,
			Reason:     "prueba",
			ActorID:    testActor,
		})
		require.NoError(t, err)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	qty, _ := store.ItemQuantity("item-1")
	assert.Equal(t, int64(5), qty, "el rollback debe restaurar la cantidad")
	assert.Zero(t, store.MovementCount("item-1"), "el rollback debe descartar el movimiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_PermiteStockNegativo(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	seedItem(store, "item-1", 5)
	uc := ledger.NewAdjustmentUseCase(runner, ports.NopAuditSink{})

	mov, err := uc.Adjust(context.Background(), ledger.AdjustmentInput{
		BoutiqueID: testBoutique,
		ItemID:     "item-1",
		Delta:      -8,
		Reason:     "merma detectada",
		ActorID:    testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindADJUST, mov.Kind)
	assert.Equal(t, int64(-3), mov.QtyAfter,
		"los ajustes no validan no-negatividad: esa política es solo de facturación")

	qty, _ := store.ItemQuantity("item-1")
	assert.Equal(t, int64(-3), qty)
}

func TestAdjust_RequiereMotivo(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	seedItem(store, "item-1", 5)
	uc := ledger.NewAdjustmentUseCase(runner, ports.NopAuditSink{})

	_, err := uc.Adjust(context.Background(), ledger.AdjustmentInput{
		BoutiqueID: testBoutique,
		ItemID:     "item-1",
		Delta:      1,
		ActorID:    testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_ConcurrenteSinPerderActualizaciones(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	seedItem(store, "item-1", 100)
	uc := ledger.NewAdjustmentUseCase(runner, ports.NopAuditSink{})

	const workers = 4
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := uc.Adjust(context.Background(), ledger.AdjustmentInput{
					BoutiqueID: testBoutique,
					ItemID:     "item-1",
					Delta:      -1,
					Reason:     "conteo",
					ActorID:    testActor,
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	qty, _ := store.ItemQuantity("item-1")
	assert.Equal(t, int64(0), qty, "ninguna resta debe perderse bajo concurrencia")
	assert.Equal(t, workers*perWorker, store.MovementCount("item-1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltraPorTipoYValidaKind(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	seedItem(store, "item-1", 10)
	uc := ledger.NewAdjustmentUseCase(runner, ports.NopAuditSink{})
	for i := 0; i < 3; i++ {
		_, err := uc.Adjust(context.Background(), ledger.AdjustmentInput{
			BoutiqueID: testBoutique, ItemID: "item-1", Delta: 1, Reason: "conteo", ActorID: testActor,
		})
		require.NoError(t, err)
	}

	listUC := ledger.NewListMovementsUseCase(memory.NewMovementRepository(store))

	movs, err := listUC.List(context.Background(), testBoutique, repositoryFilter(entity.MovementKindADJUST))
	require.NoError(t, err)
	assert.Len(t, movs, 3)

	_, err = listUC.List(context.Background(), testBoutique, repositoryFilter("NO_EXISTE"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	movs, err = listUC.List(context.Background(), testOtherBoutique, repositoryFilter(""))
	require.NoError(t, err)
	assert.Empty(t, movs, "el historial de otra boutique debe venir vacío")
}
