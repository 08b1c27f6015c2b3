package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago (derivados, ver billing.DeriveStatus).
const (
	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusPaid    = "PAID"
)

// Invoice cabecera de factura con sus líneas y pagos embebidos (un documento).
// TotalAmount es siempre derivado; con cambio de metal es el total después del descuento fino.
type Invoice struct {
	ID              string
	ShopID          string
	InvoiceNumber   string // número visible INV-yyMMdd-NNNN; la clave persistida es ID
	CustomerID      string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	InvoiceDate     time.Time
	DueDate         *time.Time
	Items           []InvoiceItem
	Payments        []Payment
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	Notes           string
	PaymentStatus   string
	Keywords        []string

	IsMetalExchangeApplied  bool
	FineGoldAmount          decimal.Decimal // gramos
	FineSilverAmount        decimal.Decimal // gramos
	FineGoldRate            decimal.Decimal // tarifa por gramo fijada al aplicar
	FineSilverRate          decimal.Decimal
	OriginalTotalBeforeFine decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindItem devuelve el índice de la línea con ese id o -1.
func (inv *Invoice) FindItem(lineID string) int {
	for i := range inv.Items {
		if inv.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}

// FindPayment devuelve el índice del pago con ese id o -1.
func (inv *Invoice) FindPayment(paymentID string) int {
	for i := range inv.Payments {
		if inv.Payments[i].ID == paymentID {
			return i
		}
	}
	return -1
}

// Clone copia profunda (las listas no se comparten).
func (inv *Invoice) Clone() *Invoice {
	if inv == nil {
		return nil
	}
	c := *inv
	c.Items = make([]InvoiceItem, len(inv.Items))
	for i, it := range inv.Items {
		c.Items[i] = it.Clone()
	}
	c.Payments = append([]Payment(nil), inv.Payments...)
	c.Keywords = append([]string(nil), inv.Keywords...)
	if inv.DueDate != nil {
		d := *inv.DueDate
		c.DueDate = &d
	}
	return &c
}
