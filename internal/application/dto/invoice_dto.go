package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// InvoiceLineRequest línea a facturar. Price nulo = precio sugerido del catálogo.
type InvoiceLineRequest struct {
	ItemID     string           `json:"item_id"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	UsedWeight decimal.Decimal  `json:"used_weight"`
}

// PaymentRequest pago nuevo o editado.
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      *time.Time      `json:"date,omitempty"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices. CustomerID vacío = venta de mostrador.
type CreateInvoiceRequest struct {
	CustomerID      string               `json:"customer_id,omitempty"`
	CustomerName    string               `json:"customer_name,omitempty"`
	CustomerPhone   string               `json:"customer_phone,omitempty"`
	CustomerAddress string               `json:"customer_address,omitempty"`
	InvoiceDate     *time.Time           `json:"invoice_date,omitempty"`
	DueDate         *time.Time           `json:"due_date,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	Items           []InvoiceLineRequest `json:"items"`
	Payments        []PaymentRequest     `json:"payments,omitempty"`
}

// UpdateQuantityRequest body para PATCH /api/invoices/:id/items/:lineId. Cantidad ≤ 0 elimina la línea.
type UpdateQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// EditItemRequest body para PUT /api/invoices/:id/items/:lineId.
// ItemDetails nulo conserva el snapshot actual.
type EditItemRequest struct {
	ItemDetails *entity.JewelleryItem `json:"item_details,omitempty"`
	Price       decimal.Decimal       `json:"price"`
	Quantity    decimal.Decimal       `json:"quantity"`
	UsedWeight  decimal.Decimal       `json:"used_weight"`
}

// MetalExchangeRequest body para POST /api/invoices/:id/metal-exchange.
// Las tarifas nulas se toman de las tarifas vigentes de la tienda para la pureza indicada.
type MetalExchangeRequest struct {
	FineGold     decimal.Decimal  `json:"fine_gold"`
	FineSilver   decimal.Decimal  `json:"fine_silver"`
	GoldRate     *decimal.Decimal `json:"gold_rate,omitempty"`
	SilverRate   *decimal.Decimal `json:"silver_rate,omitempty"`
	GoldPurity   string           `json:"gold_purity,omitempty"`
	SilverPurity string           `json:"silver_purity,omitempty"`
}

// InvoiceItemResponse línea con sus importes.
type InvoiceItemResponse struct {
	ID           string               `json:"id"`
	ItemID       string               `json:"item_id"`
	Quantity     decimal.Decimal      `json:"quantity"`
	Price        decimal.Decimal      `json:"price"`
	UsedWeight   decimal.Decimal      `json:"used_weight"`
	ItemDetails  entity.JewelleryItem `json:"item_details"`
	Amount       decimal.Decimal      `json:"amount"`
	ExtraCharges decimal.Decimal      `json:"extra_charges"`
	Tax          decimal.Decimal      `json:"tax"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// MetalExchangeResponse datos fijados del cambio de metal.
type MetalExchangeResponse struct {
	FineGold      decimal.Decimal `json:"fine_gold"`
	FineSilver    decimal.Decimal `json:"fine_silver"`
	GoldRate      decimal.Decimal `json:"gold_rate"`
	SilverRate    decimal.Decimal `json:"silver_rate"`
	FineValue     decimal.Decimal `json:"fine_value"`
	OriginalTotal decimal.Decimal `json:"original_total"`
}

// InvoiceResponse factura completa.
type InvoiceResponse struct {
	ID              string                 `json:"id"`
	InvoiceNumber   string                 `json:"invoice_number"`
	CustomerID      string                 `json:"customer_id,omitempty"`
	CustomerName    string                 `json:"customer_name,omitempty"`
	CustomerPhone   string                 `json:"customer_phone,omitempty"`
	CustomerAddress string                 `json:"customer_address,omitempty"`
	InvoiceDate     time.Time              `json:"invoice_date"`
	DueDate         *time.Time             `json:"due_date,omitempty"`
	Items           []InvoiceItemResponse  `json:"items"`
	Payments        []PaymentResponse      `json:"payments"`
	Totals          billing.Totals         `json:"totals"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	PaidAmount      decimal.Decimal        `json:"paid_amount"`
	PaymentStatus   string                 `json:"payment_status"`
	StatusLabel     string                 `json:"status_label"`
	MetalWeights    billing.Weights        `json:"metal_weights"`
	MetalExchange   *MetalExchangeResponse `json:"metal_exchange,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// InvoiceSummary fila del listado.
type InvoiceSummary struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    string          `json:"customer_id,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	PaymentStatus string          `json:"payment_status"`
	StatusLabel   string          `json:"status_label"`
	ItemCount     int             `json:"item_count"`
}

// InvoiceListResponse página de facturas.
type InvoiceListResponse struct {
	Items []InvoiceSummary `json:"items"`
	Page  PageResponse     `json:"page"`
}

// InvoiceListQuery filtros de GET /api/invoices.
type InvoiceListQuery struct {
	Status     string `query:"status"`
	CustomerID string `query:"customer_id"`
	From       string `query:"from"` // YYYY-MM-DD
	To         string `query:"to"`   // YYYY-MM-DD, inclusive
	Keyword    string `query:"q"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// TotalsPreviewRequest body para POST /api/invoices/preview.
type TotalsPreviewRequest struct {
	CreateInvoiceRequest
	MetalExchange *MetalExchangeRequest `json:"metal_exchange,omitempty"`
}

// AuditResponse resultado de la auditoría de integridad de una factura.
type AuditResponse struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Consistent    bool            `json:"consistent"`
	Issues        []billing.Issue `json:"issues"`
}
