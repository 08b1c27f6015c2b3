package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipo de saldo desde la perspectiva de la tienda.
const (
	BalanceCredit = "Credit" // por cobrar
	BalanceDebit  = "Debit"  // por pagar
)

// Customer representa un cliente de la joyería.
// CurrentBalance = OpeningBalance + saldo pendiente de sus facturas vivas.
type Customer struct {
	ID             string
	ShopID         string
	Name           string
	Phone          string
	Email          string
	Address        string
	CustomerType   string // consumer, wholesaler
	BalanceType    string // Credit, Debit
	OpeningBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	CreditLimit    decimal.Decimal // 0 = sin límite
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
