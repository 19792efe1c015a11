package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/repuestos-api/internal/domain/entity"
)

// Store es un backend en memoria con la misma semántica transaccional que el
// adaptador PostgreSQL: las transacciones se serializan con un mutex global y
// un error restaura la instantánea previa al callback. Sirve para pruebas de
// casos de uso sin base de datos.
type Store struct {
	mu sync.Mutex

	items           map[string]entity.Item
	movements       []entity.Movement
	counters        map[string]int64 // boutiqueID + "/" + docType
	purchases       map[string]entity.Purchase
	purchaseLines   map[string][]entity.PurchaseLine
	invoices        map[string]entity.Invoice
	invoiceLines    map[string][]entity.InvoiceLine
	quotes          map[string]entity.Quote
	quoteLines      map[string][]entity.QuoteLine
	creditNotes     map[string]entity.CreditNote
	creditNoteLines map[string][]entity.CreditNoteLine
	sessions        map[string]entity.InventorySession
	sessionLines    map[string][]entity.InventoryLine
}

func NewStore() *Store {
	return &Store{
		items:           make(map[string]entity.Item),
		counters:        make(map[string]int64),
		purchases:       make(map[string]entity.Purchase),
		purchaseLines:   make(map[string][]entity.PurchaseLine),
		invoices:        make(map[string]entity.Invoice),
		invoiceLines:    make(map[string][]entity.InvoiceLine),
		quotes:          make(map[string]entity.Quote),
		quoteLines:      make(map[string][]entity.QuoteLine),
		creditNotes:     make(map[string]entity.CreditNote),
		creditNoteLines: make(map[string][]entity.CreditNoteLine),
		sessions:        make(map[string]entity.InventorySession),
		sessionLines:    make(map[string][]entity.InventoryLine),
	}
}

type storeState struct {
	items           map[string]entity.Item
	movements       []entity.Movement
	counters        map[string]int64
	purchases       map[string]entity.Purchase
	purchaseLines   map[string][]entity.PurchaseLine
	invoices        map[string]entity.Invoice
	invoiceLines    map[string][]entity.InvoiceLine
	quotes          map[string]entity.Quote
	quoteLines      map[string][]entity.QuoteLine
	creditNotes     map[string]entity.CreditNote
	creditNoteLines map[string][]entity.CreditNoteLine
	sessions        map[string]entity.InventorySession
	sessionLines    map[string][]entity.InventoryLine
}

func cloneLines[T any](m map[string][]T) map[string][]T {
	out := make(map[string][]T, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

// snapshot copia el estado completo; se llama con el mutex tomado.
func (s *Store) snapshot() storeState {
	return storeState{
		items:           maps.Clone(s.items),
		movements:       slices.Clone(s.movements),
		counters:        maps.Clone(s.counters),
		purchases:       maps.Clone(s.purchases),
		purchaseLines:   cloneLines(s.purchaseLines),
		invoices:        maps.Clone(s.invoices),
		invoiceLines:    cloneLines(s.invoiceLines),
		quotes:          maps.Clone(s.quotes),
		quoteLines:      cloneLines(s.quoteLines),
		creditNotes:     maps.Clone(s.creditNotes),
		creditNoteLines: cloneLines(s.creditNoteLines),
		sessions:        maps.Clone(s.sessions),
		sessionLines:    cloneLines(s.sessionLines),
	}
}

func (s *Store) restore(st storeState) {
	s.items = st.items
	s.movements = st.movements
	s.counters = st.counters
	s.purchases = st.purchases
	s.purchaseLines = st.purchaseLines
	s.invoices = st.invoices
	s.invoiceLines = st.invoiceLines
	s.quotes = st.quotes
	s.quoteLines = st.quoteLines
	s.creditNotes = st.creditNotes
	s.creditNoteLines = st.creditNoteLines
	s.sessions = st.sessions
	s.sessionLines = st.sessionLines
}

// PutItem inserta o reemplaza un artículo directamente, fuera de toda
// transacción. Pensado para preparar fixtures.
func (s *Store) PutItem(item entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// ItemQuantity devuelve la cantidad actual de un artículo.
func (s *Store) ItemQuantity(itemID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return 0, false
	}
	return it.Quantity, true
}

// MovementCount cuenta los movimientos registrados para un artículo.
func (s *Store) MovementCount(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.movements {
		if m.ItemID == itemID {
			n++
		}
	}
	return n
}
