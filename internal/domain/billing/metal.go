package billing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// ClassifyMetal devuelve "gold", "silver" o "" buscando en itemType y category.
// Si ambos metales aparecen (en el mismo campo o en campos distintos) gana el oro.
func ClassifyMetal(details entity.JewelleryItem) string {
	fields := strings.ToLower(details.ItemType + "\x00" + details.Category)
	switch {
	case strings.Contains(fields, entity.MetalGold):
		return entity.MetalGold
	case strings.Contains(fields, entity.MetalSilver):
		return entity.MetalSilver
	default:
		return ""
	}
}

// BaseWeight peso sobre el que se aplica la tarifa: neto si MetalRateOn es "Net Weight", si no bruto.
func BaseWeight(details entity.JewelleryItem) decimal.Decimal {
	if details.MetalRateOn == entity.MetalRateOnNet {
		return details.NetWeight
	}
	return details.GrossWeight
}

// ItemMetalWeight peso de metal aportado por la línea (base × cantidad).
func ItemMetalWeight(it entity.InvoiceItem) decimal.Decimal {
	return BaseWeight(it.ItemDetails).Mul(it.Quantity)
}

// Weights gramos de oro y plata de una factura.
type Weights struct {
	Gold   decimal.Decimal `json:"gold"`
	Silver decimal.Decimal `json:"silver"`
}

// MetalWeights suma el peso por metal de las líneas clasificadas.
func MetalWeights(items []entity.InvoiceItem) Weights {
	w := Weights{Gold: decimal.Zero, Silver: decimal.Zero}
	for _, it := range items {
		switch ClassifyMetal(it.ItemDetails) {
		case entity.MetalGold:
			w.Gold = w.Gold.Add(ItemMetalWeight(it))
		case entity.MetalSilver:
			w.Silver = w.Silver.Add(ItemMetalWeight(it))
		}
	}
	return w
}

// FineValue valor monetario del metal fino recibido a las tarifas fijadas.
func FineValue(fineGold, fineSilver, goldRate, silverRate decimal.Decimal) decimal.Decimal {
	return round2(fineGold.Mul(goldRate).Add(fineSilver.Mul(silverRate)))
}

// MetalExchange datos del cambio de metal viejo por parte del cliente.
type MetalExchange struct {
	FineGold   decimal.Decimal
	FineSilver decimal.Decimal
	GoldRate   decimal.Decimal
	SilverRate decimal.Decimal
}

// ApplyMetalExchange fija los gramos finos y las tarifas y recalcula el total.
// Solo se aplica una vez; los campos finos quedan cerrados.
func ApplyMetalExchange(inv *entity.Invoice, ex MetalExchange) (Totals, error) {
	if inv.IsMetalExchangeApplied {
		return Totals{}, domain.ErrConflict
	}
	if ex.FineGold.IsNegative() || ex.FineSilver.IsNegative() ||
		ex.GoldRate.IsNegative() || ex.SilverRate.IsNegative() {
		return Totals{}, domain.ErrInvalidInput
	}
	if ex.FineGold.IsZero() && ex.FineSilver.IsZero() {
		return Totals{}, domain.ErrInvalidInput
	}
	if (ex.FineGold.IsPositive() && !ex.GoldRate.IsPositive()) ||
		(ex.FineSilver.IsPositive() && !ex.SilverRate.IsPositive()) {
		return Totals{}, domain.ErrInvalidInput
	}
	candidate := *inv
	candidate.IsMetalExchangeApplied = true
	candidate.FineGoldAmount = ex.FineGold
	candidate.FineSilverAmount = ex.FineSilver
	candidate.FineGoldRate = ex.GoldRate
	candidate.FineSilverRate = ex.SilverRate
	t := Recompute(&candidate)
	if t.Total.IsNegative() {
		return Totals{}, domain.ErrInvalidInput
	}
	*inv = candidate
	ApplyTotals(inv, t)
	return t, nil
}
