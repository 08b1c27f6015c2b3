package billing

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// InvoiceNumber formatea el número visible INV-<yyMMdd>-<NNNN>.
func InvoiceNumber(t time.Time, n int) string {
	return fmt.Sprintf("INV-%s-%04d", t.Format("060102"), n)
}

// NewInvoiceNumber genera un número visible con sufijo aleatorio 1000..9999.
// Puede repetirse; la clave persistida de la factura es un UUID.
func NewInvoiceNumber(t time.Time) string {
	return InvoiceNumber(t, 1000+rand.IntN(9000))
}

// PaymentID formatea PAY-<yyMMddHHmmss>-<NN>.
func PaymentID(t time.Time, n int) string {
	return fmt.Sprintf("PAY-%s-%02d", t.Format("060102150405"), n)
}

// NewPaymentID genera un ID de pago con sufijo aleatorio 10..99.
func NewPaymentID(t time.Time) string {
	return PaymentID(t, 10+rand.IntN(90))
}
