// Package billing concentra las reglas de cálculo de la factura de joyería:
// subtotal, cargos extra, impuesto por línea, cambio de metal fino y estado de pago.
// Todas las funciones son puras sobre decimal; la persistencia vive en la capa de aplicación.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// round2 redondea a paisa (2 decimales, mitad lejos de cero).
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Totals resultado del recálculo de una factura.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	ExtraCharges  decimal.Decimal `json:"extra_charges"`
	Tax           decimal.Decimal `json:"tax"`
	OriginalTotal decimal.Decimal `json:"original_total"` // subtotal + cargos + impuesto
	FineValue     decimal.Decimal `json:"fine_value"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"` // nunca negativo
	Overpaid      decimal.Decimal `json:"overpaid"`
	Status        string          `json:"status"`
}

// LineAmount precio × cantidad.
func LineAmount(it entity.InvoiceItem) decimal.Decimal {
	return it.Price.Mul(it.Quantity)
}

// Subtotal Σ precio × cantidad.
func Subtotal(items []entity.InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineAmount(it))
	}
	return sum
}

// ItemExtraCharges Σ cargo × cantidad de la línea.
func ItemExtraCharges(it entity.InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range it.ItemDetails.ListOfExtraCharges {
		sum = sum.Add(c.Amount.Mul(it.Quantity))
	}
	return sum
}

// ExtraCharges total de cargos extra de todas las líneas.
func ExtraCharges(items []entity.InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(ItemExtraCharges(it))
	}
	return sum
}

// ItemTax impuesto directo de una línea: (precio×cant + cargos×cant) × tasa/100, redondeado.
func ItemTax(it entity.InvoiceItem) decimal.Decimal {
	taxable := LineAmount(it).Add(ItemExtraCharges(it))
	return round2(taxable.Mul(it.ItemDetails.TaxRate).Div(hundred))
}

// Tax Σ impuesto por línea. Nunca se deduce del total guardado.
func Tax(items []entity.InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(ItemTax(it))
	}
	return sum
}

// PaidAmount Σ montos de los pagos.
func PaidAmount(payments []entity.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Recompute calcula los totales derivados sin modificar la factura.
func Recompute(inv *entity.Invoice) Totals {
	t := Totals{
		Subtotal:     Subtotal(inv.Items),
		ExtraCharges: ExtraCharges(inv.Items),
		Tax:          Tax(inv.Items),
		FineValue:    decimal.Zero,
		Paid:         PaidAmount(inv.Payments),
	}
	t.OriginalTotal = t.Subtotal.Add(t.ExtraCharges).Add(t.Tax)
	t.Total = t.OriginalTotal
	if inv.IsMetalExchangeApplied {
		t.FineValue = FineValue(inv.FineGoldAmount, inv.FineSilverAmount, inv.FineGoldRate, inv.FineSilverRate)
		t.Total = t.OriginalTotal.Sub(t.FineValue)
	}
	t.BalanceDue = Outstanding(t.Total, t.Paid)
	t.Overpaid = Overpaid(t.Total, t.Paid)
	t.Status = DeriveStatus(t.Total, t.Paid)
	return t
}

// ApplyTotals escribe en la factura los campos derivados de t.
func ApplyTotals(inv *entity.Invoice, t Totals) {
	inv.TotalAmount = t.Total
	inv.PaidAmount = t.Paid
	inv.PaymentStatus = t.Status
	if inv.IsMetalExchangeApplied {
		inv.OriginalTotalBeforeFine = t.OriginalTotal
	} else {
		inv.OriginalTotalBeforeFine = decimal.Zero
	}
}

// Refresh recalcula y aplica. Debe llamarse después de cada mutación de líneas o pagos.
func Refresh(inv *entity.Invoice) Totals {
	t := Recompute(inv)
	ApplyTotals(inv, t)
	return t
}
