package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repuestos-api/internal/application/inventory"
	"github.com/jhoicas/repuestos-api/internal/application/ports"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/infrastructure/memory"
)

const (
	testBoutique = "boutique-1"
	testUser     = "user-1"
)

func newSessionEnv() (*memory.Store, *inventory.SessionUseCase) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	return store, inventory.NewSessionUseCase(runner, ports.NopAuditSink{})
}

func seedItem(store *memory.Store, id string, qty int64) {
	store.PutItem(entity.Item{
		ID:         id,
		BoutiqueID: testBoutique,
		SKU:        "SKU-" + id,
		Name:       "Bujía",
		Quantity:   qty,
		SalePrice:  decimal.NewFromInt(5),
		Active:     true,
	})
}

// lineFor localiza la línea de un artículo dentro de la sesión.
func lineFor(t *testing.T, lines []*entity.InventoryLine, itemID string) *entity.InventoryLine {
	t.Helper()
	for _, l := range lines {
		if l.ItemID == itemID {
			return l
		}
	}
	t.Fatalf("línea no encontrada para %s", itemID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura y conteo
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSession_CongelaTeoricoDeActivos(t *testing.T) {
	store, uc := newSessionEnv()
	seedItem(store, "item-1", 50)
	seedItem(store, "item-2", 7)
	store.PutItem(entity.Item{ID: "item-3", BoutiqueID: testBoutique, SKU: "SKU-item-3", Quantity: 9, Active: false})

	session, lines, err := uc.CreateSession(context.Background(), testBoutique, testUser, nil)
	require.NoError(t, err)

	assert.Equal(t, "I-0001", session.Number)
	assert.Equal(t, entity.SessionStatusInProgress, session.Status)
	require.Len(t, lines, 2, "los artículos inactivos no entran en la sesión")

	l1 := lineFor(t, lines, "item-1")
	assert.Equal(t, int64(50), l1.TheoreticalQty)
	assert.Nil(t, l1.PhysicalQty, "sin contar, la cantidad física es nula")
	assert.False(t, l1.Counted)
}

func TestCountLine_CalculaVarianzaYEsRepetible(t *testing.T) {
	store, uc := newSessionEnv()
	seedItem(store, "item-1", 50)

	session, lines, err := uc.CreateSession(context.Background(), testBoutique, testUser, []string{"item-1"})
	require.NoError(t, err)
	lineID := lineFor(t, lines, "item-1").ID

	counted, err := uc.CountLine(context.Background(), testBoutique, session.ID, lineID, 45)
	require.NoError(t, err)
	require.NotNil(t, counted.Variance)
	assert.Equal(t, int64(-5), *counted.Variance)

	// Recontar reemplaza el conteo anterior.
	counted, err = uc.CountLine(context.Background(), testBoutique, session.ID, lineID, 47)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), *counted.Variance)
	assert.True(t, counted.Counted)

	// El conteo no toca el stock: solo la validación lo hace.
	qty, _ := store.ItemQuantity("item-1")
	assert.Equal(t, int64(50), qty)

	_, err = uc.CountLine(context.Background(), testBoutique, session.ID, lineID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre
// ──────────────────────────────────────────────────────────────────────────────

func TestSetStatusValide_AplicaDiferenciasContadas(t *testing.T) {
	store, uc := newSessionEnv()
	seedItem(store, "item-1", 50)
	seedItem(store, "item-2", 10) // sin contar: su teórico queda en pie
	seedItem(store, "item-3", 20) // contado exacto: sin movimiento

	session, lines, err := uc.CreateSession(context.Background(), testBoutique, testUser, nil)
	require.NoError(t, err)

	_, err = uc.CountLine(context.Background(), testBoutique, session.ID, lineFor(t, lines, "item-1").ID, 47)
	require.NoError(t, err)
	_, err = uc.CountLine(context.Background(), testBoutique, session.ID, lineFor(t, lines, "item-3").ID, 20)
	require.NoError(t, err)

	closed, err := uc.SetStatus(context.Background(), testBoutique, testUser, session.ID, entity.SessionStatusValidated)
	require.NoError(t, err)

	assert.Equal(t, entity.SessionStatusValidated, closed.Status)
	assert.Equal(t, int64(-3), closed.TotalVariance)
	require.NotNil(t, closed.ClosedAt)

	qty1, _ := store.ItemQuantity("item-1")
	qty2, _ := store.ItemQuantity("item-2")
	qty3, _ := store.ItemQuantity("item-3")
	assert.Equal(t, int64(47), qty1, "el stock queda en la cantidad física contada")
	assert.Equal(t, int64(10), qty2, "las líneas sin contar no se corrigen")
	assert.Equal(t, int64(20), qty3)

	assert.Equal(t, 1, store.MovementCount("item-1"),
		"una corrección INVENTORY por línea con diferencia")
	assert.Zero(t, store.MovementCount("item-2"))
	assert.Zero(t, store.MovementCount("item-3"), "diferencia cero no genera movimiento")
}

func TestSetStatusAnnule_NoTocaElStock(t *testing.T) {
	store, uc := newSessionEnv()
	seedItem(store, "item-1", 50)

	session, lines, err := uc.CreateSession(context.Background(), testBoutique, testUser, nil)
	require.NoError(t, err)
	_, err = uc.CountLine(context.Background(), testBoutique, session.ID, lineFor(t, lines, "item-1").ID, 1)
	require.NoError(t, err)

	closed, err := uc.SetStatus(context.Background(), testBoutique, testUser, session.ID, entity.SessionStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusCancelled, closed.Status)

	qty, _ := store.ItemQuantity("item-1")
	assert.Equal(t, int64(50), qty)
	assert.Zero(t, store.MovementCount("item-1"))
}

func TestSesionCerrada_EsSoloLectura(t *testing.T) {
	store, uc := newSessionEnv()
	seedItem(store, "item-1", 50)

	session, lines, err := uc.CreateSession(context.Background(), testBoutique, testUser, nil)
	require.NoError(t, err)
	lineID := lineFor(t, lines, "item-1").ID

	_, err = uc.SetStatus(context.Background(), testBoutique, testUser, session.ID, entity.SessionStatusValidated)
	require.NoError(t, err)

	_, err = uc.CountLine(context.Background(), testBoutique, session.ID, lineID, 40)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	// VALIDE es terminal: ni revalidar ni anular.
	_, err = uc.SetStatus(context.Background(), testBoutique, testUser, session.ID, entity.SessionStatusValidated)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.SetStatus(context.Background(), testBoutique, testUser, session.ID, entity.SessionStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreateSession_ConListaExplicitaDeArticulos(t *testing.T) {
	store, uc := newSessionEnv()
	seedItem(store, "item-1", 50)
	seedItem(store, "item-2", 10)

	_, lines, err := uc.CreateSession(context.Background(), testBoutique, testUser, []string{"item-2"})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "item-2", lines[0].ItemID)

	_, _, err = uc.CreateSession(context.Background(), testBoutique, testUser, []string{"no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
