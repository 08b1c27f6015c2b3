package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

const maxPaymentIDAttempts = 100

// NewLine crea una línea con el snapshot del artículo al momento de la venta.
func NewLine(lineID string, item entity.JewelleryItem, quantity, price, usedWeight decimal.Decimal) entity.InvoiceItem {
	details := item
	details.ListOfExtraCharges = append([]entity.ExtraCharge(nil), item.ListOfExtraCharges...)
	return entity.InvoiceItem{
		ID:          lineID,
		ItemID:      item.ID,
		Quantity:    quantity,
		ItemDetails: details,
		Price:       price,
		UsedWeight:  usedWeight,
	}
}

// commit valida y aplica las nuevas listas. Si falla, inv no cambia.
func commit(inv *entity.Invoice, items []entity.InvoiceItem, payments []entity.Payment) (Totals, error) {
	candidate := *inv
	candidate.Items = items
	candidate.Payments = payments
	t := Recompute(&candidate)
	if candidate.IsMetalExchangeApplied && t.Total.IsNegative() {
		return Totals{}, domain.ErrInvalidInput
	}
	inv.Items = items
	inv.Payments = payments
	ApplyTotals(inv, t)
	return t, nil
}

func copyItems(items []entity.InvoiceItem) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func validLine(line entity.InvoiceItem) bool {
	return line.ID != "" && line.Quantity.IsPositive() && !line.Price.IsNegative() &&
		!line.ItemDetails.TaxRate.IsNegative() && line.ItemDetails.TaxRate.LessThanOrEqual(hundred)
}

// AddItem agrega una línea nueva. Cantidad ≤ 0 al crear es un error.
func AddItem(inv *entity.Invoice, line entity.InvoiceItem) (Totals, error) {
	if !validLine(line) {
		return Totals{}, domain.ErrInvalidInput
	}
	if inv.FindItem(line.ID) >= 0 {
		return Totals{}, domain.ErrDuplicate
	}
	items := append(copyItems(inv.Items), line.Clone())
	return commit(inv, items, inv.Payments)
}

// RemoveItem elimina la línea por id.
func RemoveItem(inv *entity.Invoice, lineID string) (Totals, error) {
	idx := inv.FindItem(lineID)
	if idx < 0 {
		return Totals{}, domain.ErrNotFound
	}
	items := make([]entity.InvoiceItem, 0, len(inv.Items)-1)
	for i, it := range inv.Items {
		if i != idx {
			items = append(items, it.Clone())
		}
	}
	return commit(inv, items, inv.Payments)
}

// UpdateItemQuantity cambia la cantidad; ≤ 0 equivale a eliminar la línea.
func UpdateItemQuantity(inv *entity.Invoice, lineID string, quantity decimal.Decimal) (removed bool, t Totals, err error) {
	idx := inv.FindItem(lineID)
	if idx < 0 {
		return false, Totals{}, domain.ErrNotFound
	}
	if !quantity.IsPositive() {
		t, err = RemoveItem(inv, lineID)
		return err == nil, t, err
	}
	items := copyItems(inv.Items)
	items[idx].Quantity = quantity
	t, err = commit(inv, items, inv.Payments)
	return false, t, err
}

// EditItem reemplaza snapshot, precio y cantidad conservando el id de la línea.
func EditItem(inv *entity.Invoice, lineID string, details entity.JewelleryItem, price, quantity, usedWeight decimal.Decimal) (removed bool, t Totals, err error) {
	idx := inv.FindItem(lineID)
	if idx < 0 {
		return false, Totals{}, domain.ErrNotFound
	}
	if !quantity.IsPositive() {
		t, err = RemoveItem(inv, lineID)
		return err == nil, t, err
	}
	line := NewLine(lineID, details, quantity, price, usedWeight)
	if !validLine(line) {
		return false, Totals{}, domain.ErrInvalidInput
	}
	items := copyItems(inv.Items)
	items[idx] = line
	t, err = commit(inv, items, inv.Payments)
	return false, t, err
}

// AddPayment agrega un pago si hay saldo pendiente. Si p.ID está vacío se genera.
func AddPayment(inv *entity.Invoice, p entity.Payment, now time.Time) (Totals, error) {
	if !p.Amount.IsPositive() || p.Method == "" {
		return Totals{}, domain.ErrInvalidInput
	}
	current := Recompute(inv)
	if !current.BalanceDue.IsPositive() {
		return Totals{}, domain.ErrAlreadyPaid
	}
	if p.Date.IsZero() {
		p.Date = now
	}
	for _, existing := range inv.Payments {
		if existing.IsSamePayment(p) {
			return Totals{}, domain.ErrDuplicate
		}
	}
	if p.ID == "" {
		for i := 0; i < maxPaymentIDAttempts; i++ {
			id := NewPaymentID(now)
			if inv.FindPayment(id) < 0 {
				p.ID = id
				break
			}
		}
		if p.ID == "" {
			return Totals{}, domain.ErrConflict
		}
	} else if inv.FindPayment(p.ID) >= 0 {
		return Totals{}, domain.ErrDuplicate
	}
	payments := append(append([]entity.Payment(nil), inv.Payments...), p)
	return commit(inv, inv.Items, payments)
}

// EditPayment reemplaza los datos del pago conservando su id.
func EditPayment(inv *entity.Invoice, updated entity.Payment) (Totals, error) {
	idx := inv.FindPayment(updated.ID)
	if idx < 0 {
		return Totals{}, domain.ErrNotFound
	}
	if !updated.Amount.IsPositive() || updated.Method == "" {
		return Totals{}, domain.ErrInvalidInput
	}
	if updated.Date.IsZero() {
		updated.Date = inv.Payments[idx].Date
	}
	payments := append([]entity.Payment(nil), inv.Payments...)
	payments[idx] = updated
	return commit(inv, inv.Items, payments)
}

// RemovePayment elimina el pago por id.
func RemovePayment(inv *entity.Invoice, paymentID string) (Totals, error) {
	idx := inv.FindPayment(paymentID)
	if idx < 0 {
		return Totals{}, domain.ErrNotFound
	}
	payments := make([]entity.Payment, 0, len(inv.Payments)-1)
	for i, p := range inv.Payments {
		if i != idx {
			payments = append(payments, p)
		}
	}
	return commit(inv, inv.Items, payments)
}

// StockDelta cantidad adicional vendida por artículo del catálogo entre dos versiones de las líneas.
// Positivo: hay que descontar stock; negativo: hay que devolverlo.
func StockDelta(before, after []entity.InvoiceItem) map[string]decimal.Decimal {
	delta := make(map[string]decimal.Decimal)
	for _, it := range after {
		delta[it.ItemID] = delta[it.ItemID].Add(it.Quantity)
	}
	for _, it := range before {
		delta[it.ItemID] = delta[it.ItemID].Sub(it.Quantity)
	}
	for id, d := range delta {
		if d.IsZero() || id == "" {
			delete(delta, id)
		}
	}
	return delta
}
