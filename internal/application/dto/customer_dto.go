package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest body para POST/PUT /api/customers.
type CustomerRequest struct {
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Address        string          `json:"address,omitempty"`
	CustomerType   string          `json:"customer_type,omitempty"`
	BalanceType    string          `json:"balance_type,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Notes          string          `json:"notes,omitempty"`
}

// CustomerResponse cliente con su uso de crédito.
type CustomerResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	Address         string          `json:"address,omitempty"`
	CustomerType    string          `json:"customer_type,omitempty"`
	BalanceType     string          `json:"balance_type"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	UsagePercentage decimal.Decimal `json:"usage_percentage"`
	UsageLevel      string          `json:"usage_level"`
	OverLimit       bool            `json:"over_limit"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CustomerListResponse página de clientes.
type CustomerListResponse struct {
	Items []*CustomerResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreditSummaryResponse resumen de crédito de un cliente.
type CreditSummaryResponse struct {
	CustomerID       string          `json:"customer_id"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	UsagePercentage  decimal.Decimal `json:"usage_percentage"`
	UsageLevel       string          `json:"usage_level"`
	OverLimit        bool            `json:"over_limit"`
	OpenInvoiceCount int             `json:"open_invoice_count"`
	LastInvoiceDate  *time.Time      `json:"last_invoice_date,omitempty"`
}
