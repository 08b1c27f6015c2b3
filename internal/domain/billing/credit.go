package billing

import "github.com/shopspring/decimal"

// Niveles de uso de crédito para la vista.
const (
	UsageRed     = "red"
	UsageOrange  = "orange"
	UsageDefault = "default"
)

var (
	usageRedAt    = decimal.NewFromInt(90)
	usageOrangeAt = decimal.NewFromInt(75)
)

// UsagePercentage clamp(saldo / límite × 100, 0, 100); 0 si no hay límite.
func UsagePercentage(currentBalance, creditLimit decimal.Decimal) decimal.Decimal {
	if !creditLimit.IsPositive() {
		return decimal.Zero
	}
	pct := currentBalance.Div(creditLimit).Mul(hundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return round2(pct)
}

// UsageLevel ≥90 rojo, ≥75 naranja. Solo es informativo: no bloquea ventas.
func UsageLevel(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThanOrEqual(usageRedAt):
		return UsageRed
	case pct.GreaterThanOrEqual(usageOrangeAt):
		return UsageOrange
	default:
		return UsageDefault
	}
}

// OverLimit saldo por encima del límite (la venta se permite igual).
func OverLimit(currentBalance, creditLimit decimal.Decimal) bool {
	return creditLimit.IsPositive() && currentBalance.GreaterThan(creditLimit)
}
