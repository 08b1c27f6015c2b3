package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// SuggestedPrice precio unitario sugerido de un artículo del catálogo:
//
//	metal   = base × (1 + wastage/100) × tarifa
//	hechura = cargo × base (PER_GRAM) | cargo (FIXED)
//
// Los cargos extra no se incluyen; se suman por línea en la factura.
func SuggestedPrice(item entity.JewelleryItem) decimal.Decimal {
	base := BaseWeight(item)
	effective := base.Mul(decimal.NewFromInt(1).Add(item.Wastage.Div(hundred)))
	metal := effective.Mul(item.MetalRate)
	making := item.MakingCharges
	if item.MakingChargesType != entity.MakingFixed {
		making = item.MakingCharges.Mul(base)
	}
	return round2(metal.Add(making))
}
