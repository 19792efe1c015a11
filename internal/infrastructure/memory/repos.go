package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

// Los repos de este archivo operan sin tomar el mutex: el TxRunner lo sostiene
// durante toda la transacción. Para acceso fuera de transacción ver los
// helpers de Store y NewMovementRepository.

// ── artículos ────────────────────────────────────────────────────────────────

type itemRepo struct{ s *Store }

func (r itemRepo) Create(item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r itemRepo) GetByID(boutiqueID, id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok || it.BoutiqueID != boutiqueID {
		return nil, nil
	}
	return &it, nil
}

func (r itemRepo) ListActive(boutiqueID string) ([]*entity.Item, error) {
	var list []*entity.Item
	for _, it := range r.s.items {
		if it.BoutiqueID == boutiqueID && it.Active {
			it := it
			list = append(list, &it)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return list, nil
}

// GetForUpdate no bloquea nada adicional: el mutex global del TxRunner ya
// serializa la transacción completa, que es la garantía que FOR UPDATE da
// por fila en PostgreSQL.
func (r itemRepo) GetForUpdate(boutiqueID, itemID string) (*entity.Item, error) {
	return r.GetByID(boutiqueID, itemID)
}

func (r itemRepo) UpdateQuantity(boutiqueID, itemID string, quantity int64) error {
	it, ok := r.s.items[itemID]
	if !ok || it.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	it.UpdatedAt = time.Now()
	r.s.items[itemID] = it
	return nil
}

// ── movimientos ──────────────────────────────────────────────────────────────

type movementRepo struct {
	s       *Store
	locking bool
}

// NewMovementRepository devuelve un repositorio de movimientos utilizable
// fuera de transacción (toma el mutex por operación).
func NewMovementRepository(s *Store) repository.MovementRepository {
	return movementRepo{s: s, locking: true}
}

func (r movementRepo) Create(m *entity.Movement) error {
	if r.locking {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r movementRepo) List(boutiqueID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	if r.locking {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	var list []*entity.Movement
	skipped := 0
	// Más recientes primero: orden inverso de inserción.
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.BoutiqueID != boutiqueID {
			continue
		}
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		list = append(list, &m)
		if f.Limit > 0 && len(list) >= f.Limit {
			break
		}
	}
	return list, nil
}

// ── consecutivos ─────────────────────────────────────────────────────────────

type sequenceRepo struct{ s *Store }

func (r sequenceRepo) Next(boutiqueID, docType string) (int64, error) {
	key := boutiqueID + "/" + docType
	r.s.counters[key]++
	return r.s.counters[key], nil
}

// ── compras ──────────────────────────────────────────────────────────────────

type purchaseRepo struct{ s *Store }

func (r purchaseRepo) Create(p *entity.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.s.purchases[p.ID] = *p
	return nil
}

func (r purchaseRepo) CreateLine(l *entity.PurchaseLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	r.s.purchaseLines[l.PurchaseID] = append(r.s.purchaseLines[l.PurchaseID], *l)
	return nil
}

func (r purchaseRepo) GetByID(boutiqueID, id string) (*entity.Purchase, error) {
	p, ok := r.s.purchases[id]
	if !ok || p.BoutiqueID != boutiqueID {
		return nil, nil
	}
	return &p, nil
}

func (r purchaseRepo) GetLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	lines := r.s.purchaseLines[purchaseID]
	out := make([]*entity.PurchaseLine, 0, len(lines))
	for i := range lines {
		l := lines[i]
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r purchaseRepo) UpdateStatus(boutiqueID, id, status string) error {
	p, ok := r.s.purchases[id]
	if !ok || p.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	r.s.purchases[id] = p
	return nil
}

func (r purchaseRepo) Delete(boutiqueID, id string) error {
	p, ok := r.s.purchases[id]
	if !ok || p.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	delete(r.s.purchaseLines, id)
	delete(r.s.purchases, id)
	return nil
}

// ── facturas ─────────────────────────────────────────────────────────────────

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) CreateLine(l *entity.InvoiceLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	r.s.invoiceLines[l.InvoiceID] = append(r.s.invoiceLines[l.InvoiceID], *l)
	return nil
}

func (r invoiceRepo) GetByID(boutiqueID, id string) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok || inv.BoutiqueID != boutiqueID {
		return nil, nil
	}
	return &inv, nil
}

func (r invoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	lines := r.s.invoiceLines[invoiceID]
	out := make([]*entity.InvoiceLine, 0, len(lines))
	for i := range lines {
		l := lines[i]
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r invoiceRepo) UpdateStatus(boutiqueID, id, status string) error {
	inv, ok := r.s.invoices[id]
	if !ok || inv.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	r.s.invoices[id] = inv
	return nil
}

func (r invoiceRepo) Delete(boutiqueID, id string) error {
	inv, ok := r.s.invoices[id]
	if !ok || inv.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	delete(r.s.invoiceLines, id)
	delete(r.s.invoices, id)
	return nil
}

// ── cotizaciones ─────────────────────────────────────────────────────────────

type quoteRepo struct{ s *Store }

func (r quoteRepo) Create(q *entity.Quote) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	r.s.quotes[q.ID] = *q
	return nil
}

func (r quoteRepo) CreateLine(l *entity.QuoteLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	r.s.quoteLines[l.QuoteID] = append(r.s.quoteLines[l.QuoteID], *l)
	return nil
}

func (r quoteRepo) GetByID(boutiqueID, id string) (*entity.Quote, error) {
	q, ok := r.s.quotes[id]
	if !ok || q.BoutiqueID != boutiqueID {
		return nil, nil
	}
	return &q, nil
}

func (r quoteRepo) GetLines(quoteID string) ([]*entity.QuoteLine, error) {
	lines := r.s.quoteLines[quoteID]
	out := make([]*entity.QuoteLine, 0, len(lines))
	for i := range lines {
		l := lines[i]
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r quoteRepo) UpdateStatus(boutiqueID, id, status string) error {
	q, ok := r.s.quotes[id]
	if !ok || q.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	q.Status = status
	q.UpdatedAt = time.Now()
	r.s.quotes[id] = q
	return nil
}

func (r quoteRepo) UpdateTotals(boutiqueID, id string, subtotal, taxTotal, grandTotal decimal.Decimal) error {
	q, ok := r.s.quotes[id]
	if !ok || q.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	q.Subtotal = subtotal
	q.TaxTotal = taxTotal
	q.GrandTotal = grandTotal
	q.UpdatedAt = time.Now()
	r.s.quotes[id] = q
	return nil
}

func (r quoteRepo) DeleteLines(quoteID string) error {
	delete(r.s.quoteLines, quoteID)
	return nil
}

func (r quoteRepo) Delete(boutiqueID, id string) error {
	q, ok := r.s.quotes[id]
	if !ok || q.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	delete(r.s.quoteLines, id)
	delete(r.s.quotes, id)
	return nil
}

// ── notas de crédito ─────────────────────────────────────────────────────────

type creditNoteRepo struct{ s *Store }

func (r creditNoteRepo) Create(n *entity.CreditNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	r.s.creditNotes[n.ID] = *n
	return nil
}

func (r creditNoteRepo) CreateLine(l *entity.CreditNoteLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	r.s.creditNoteLines[l.CreditNoteID] = append(r.s.creditNoteLines[l.CreditNoteID], *l)
	return nil
}

func (r creditNoteRepo) GetByID(boutiqueID, id string) (*entity.CreditNote, error) {
	n, ok := r.s.creditNotes[id]
	if !ok || n.BoutiqueID != boutiqueID {
		return nil, nil
	}
	return &n, nil
}

func (r creditNoteRepo) GetLines(noteID string) ([]*entity.CreditNoteLine, error) {
	lines := r.s.creditNoteLines[noteID]
	out := make([]*entity.CreditNoteLine, 0, len(lines))
	for i := range lines {
		l := lines[i]
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r creditNoteRepo) UpdateStatus(boutiqueID, id, status string) error {
	n, ok := r.s.creditNotes[id]
	if !ok || n.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	n.Status = status
	n.UpdatedAt = time.Now()
	r.s.creditNotes[id] = n
	return nil
}

func (r creditNoteRepo) UpdateTotals(boutiqueID, id string, subtotal, taxTotal, grandTotal decimal.Decimal) error {
	n, ok := r.s.creditNotes[id]
	if !ok || n.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	n.Subtotal = subtotal
	n.TaxTotal = taxTotal
	n.GrandTotal = grandTotal
	n.UpdatedAt = time.Now()
	r.s.creditNotes[id] = n
	return nil
}

func (r creditNoteRepo) DeleteLines(noteID string) error {
	delete(r.s.creditNoteLines, noteID)
	return nil
}

func (r creditNoteRepo) Delete(boutiqueID, id string) error {
	n, ok := r.s.creditNotes[id]
	if !ok || n.BoutiqueID != boutiqueID {
		return domain.ErrNotFound
	}
	delete(r.s.creditNoteLines, id)
	delete(r.s.creditNotes, id)
	return nil
}

// ── inventario físico ────────────────────────────────────────────────────────

type inventoryRepo struct{ s *Store }

func (r inventoryRepo) CreateSession(sess *entity.InventorySession) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	r.s.sessions[sess.ID] = *sess
	return nil
}

func (r inventoryRepo) CreateLine(l *entity.InventoryLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	r.s.sessionLines[l.SessionID] = append(r.s.sessionLines[l.SessionID], *l)
	return nil
}

func (r inventoryRepo) GetSession(boutiqueID, id string) (*entity.InventorySession, error) {
	sess, ok := r.s.sessions[id]
	if !ok || sess.BoutiqueID != boutiqueID {
		return nil, nil
	}
	return &sess, nil
}

func (r inventoryRepo) GetLines(sessionID string) ([]*entity.InventoryLine, error) {
	lines := r.s.sessionLines[sessionID]
	out := make([]*entity.InventoryLine, 0, len(lines))
	for i := range lines {
		l := lines[i]
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r inventoryRepo) GetLine(sessionID, lineID string) (*entity.InventoryLine, error) {
	for _, l := range r.s.sessionLines[sessionID] {
		if l.ID == lineID {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

func (r inventoryRepo) UpdateLine(line *entity.InventoryLine) error {
	lines := r.s.sessionLines[line.SessionID]
	for i := range lines {
		if lines[i].ID == line.ID {
			lines[i] = *line
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r inventoryRepo) CloseSession(sess *entity.InventorySession) error {
	stored, ok := r.s.sessions[sess.ID]
	if !ok || stored.BoutiqueID != sess.BoutiqueID {
		return domain.ErrNotFound
	}
	r.s.sessions[sess.ID] = *sess
	return nil
}
