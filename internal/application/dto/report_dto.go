package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReport agregados de ventas de un periodo [From, To).
type SalesReport struct {
	From             time.Time                  `json:"from"`
	To               time.Time                  `json:"to"`
	InvoiceCount     int                        `json:"invoice_count"`
	Subtotal         decimal.Decimal            `json:"subtotal"`
	ExtraCharges     decimal.Decimal            `json:"extra_charges"`
	Tax              decimal.Decimal            `json:"tax"`
	FineValue        decimal.Decimal            `json:"fine_value"`
	Total            decimal.Decimal            `json:"total"`
	Paid             decimal.Decimal            `json:"paid"`
	Outstanding      decimal.Decimal            `json:"outstanding"`
	FineGoldGrams    decimal.Decimal            `json:"fine_gold_grams"`
	FineSilverGrams  decimal.Decimal            `json:"fine_silver_grams"`
	GoldGramsSold    decimal.Decimal            `json:"gold_grams_sold"`
	SilverGramsSold  decimal.Decimal            `json:"silver_grams_sold"`
	StatusCounts     map[string]int             `json:"status_counts"`
	PaymentsByMethod map[string]decimal.Decimal `json:"payments_by_method"`
	Daily            []DailySales               `json:"daily"`
	TopItems         []TopItem                  `json:"top_items"`
}

// DailySales serie diaria.
type DailySales struct {
	Date         string          `json:"date"` // YYYY-MM-DD
	InvoiceCount int             `json:"invoice_count"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
}

// TopItem artículo más vendido por ingreso.
type TopItem struct {
	ItemID      string          `json:"item_id"`
	DisplayName string          `json:"display_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// CustomerDue saldo pendiente de un cliente.
type CustomerDue struct {
	CustomerID      string          `json:"customer_id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone,omitempty"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	UsagePercentage decimal.Decimal `json:"usage_percentage"`
	UsageLevel      string          `json:"usage_level"`
	OpenInvoices    int             `json:"open_invoices"`
}

// CustomerDuesReport saldos pendientes ordenados de mayor a menor.
type CustomerDuesReport struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	Customers        []CustomerDue   `json:"customers"`
}
