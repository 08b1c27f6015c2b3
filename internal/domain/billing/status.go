package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// BalanceDue total − pagado (negativo si hay sobrepago). Es el valor que se suma al saldo del cliente.
func BalanceDue(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}

// Outstanding saldo pendiente para mostrar: BalanceDue con piso en cero.
func Outstanding(total, paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(BalanceDue(total, paid), decimal.Zero)
}

// Overpaid excedente pagado sobre el total; cero si no hay sobrepago.
func Overpaid(total, paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(BalanceDue(total, paid).Neg(), decimal.Zero)
}

// DeriveStatus estado de pago como función pura de (total, pagado).
func DeriveStatus(total, paid decimal.Decimal) string {
	if BalanceDue(total, paid).LessThanOrEqual(decimal.Zero) {
		return entity.PaymentStatusPaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return entity.PaymentStatusPartial
	}
	return entity.PaymentStatusUnpaid
}

// StatusLabel etiqueta visible; los mayoristas ven TO PAY / PARTIALLY PAID.
func StatusLabel(status, businessType string) string {
	if businessType != entity.BusinessWholesaler {
		return status
	}
	switch status {
	case entity.PaymentStatusUnpaid:
		return "TO PAY"
	case entity.PaymentStatusPartial:
		return "PARTIALLY PAID"
	default:
		return status
	}
}
