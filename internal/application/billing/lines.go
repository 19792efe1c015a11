package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repuestos-api/internal/application/dto"
	"github.com/jhoicas/repuestos-api/internal/domain"
	"github.com/jhoicas/repuestos-api/internal/domain/entity"
	"github.com/jhoicas/repuestos-api/internal/domain/repository"
)

// builtLine línea validada y valorizada, lista para persistir.
type builtLine struct {
	Kind        string
	ItemID      string
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal
}

// normalizeRate acepta tasas como fracción (0.19) o porcentaje (19) y
// devuelve siempre la fracción.
func normalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// buildLines valida y valoriza las líneas entrantes contra el catálogo de la
// boutique. CATALOG exige un Item existente del tenant (precio de venta por
// defecto si no viene); FREE_TEXT exige descripción y rechaza ItemID.
func buildLines(items repository.ItemRepository, boutiqueID string, in []dto.LineInput) ([]builtLine, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make([]builtLine, 0, len(in))
	for _, l := range in {
		if l.Quantity <= 0 || l.UnitPrice.LessThan(decimal.Zero) || l.TaxRate.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		switch l.Kind {
		case entity.LineKindCatalog:
			if l.ItemID == "" {
				return nil, domain.ErrInvalidInput
			}
			item, err := items.GetByID(boutiqueID, l.ItemID)
			if err != nil {
				return nil, err
			}
			if item == nil {
				return nil, domain.ErrNotFound
			}
			price := l.UnitPrice
			if price.IsZero() {
				price = item.SalePrice
			}
			desc := l.Description
			if desc == "" {
				desc = item.Name
			}
			qty := decimal.NewFromInt(l.Quantity)
			out = append(out, builtLine{
				Kind:        entity.LineKindCatalog,
				ItemID:      item.ID,
				Description: desc,
				Quantity:    l.Quantity,
				UnitPrice:   price,
				TaxRate:     normalizeRate(l.TaxRate),
				LineTotal:   qty.Mul(price),
			})
		case entity.LineKindFreeText:
			if l.Description == "" || l.ItemID != "" {
				return nil, domain.ErrInvalidInput
			}
			qty := decimal.NewFromInt(l.Quantity)
			out = append(out, builtLine{
				Kind:        entity.LineKindFreeText,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxRate:     normalizeRate(l.TaxRate),
				LineTotal:   qty.Mul(l.UnitPrice),
			})
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	return out, nil
}

// computeTotals calcula subtotal, impuesto y total una sola vez, al crear o al
// reemplazar líneas; los totales se persisten y no se recalculan en lecturas.
func computeTotals(lines []builtLine) (subtotal, taxTotal, grandTotal decimal.Decimal) {
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
		taxTotal = taxTotal.Add(l.LineTotal.Mul(l.TaxRate))
	}
	grandTotal = subtotal.Add(taxTotal)
	return subtotal, taxTotal, grandTotal
}
