package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash   = "Cash"
	PaymentUPI    = "UPI"
	PaymentCard   = "Card"
	PaymentBank   = "Bank Transfer"
	PaymentCheque = "Cheque"
	PaymentMetal  = "Old Gold"
)

// Payment pago registrado en una factura. Identidad por ID (PAY-yyMMddHHmmss-NN).
type Payment struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// IsSamePayment igualdad de negocio para detectar envíos duplicados: monto, método y fecha (al segundo).
func (p Payment) IsSamePayment(o Payment) bool {
	return p.Amount.Equal(o.Amount) && p.Method == o.Method &&
		p.Date.Truncate(time.Second).Equal(o.Date.Truncate(time.Second))
}
