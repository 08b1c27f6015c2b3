package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationResponse aviso en respuestas.
type NotificationResponse struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	InvoiceID  string           `json:"invoice_id,omitempty"`
	CustomerID string           `json:"customer_id,omitempty"`
	ItemID     string           `json:"item_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"created_at"`
}

// DeviceTokenRequest body para POST /api/notifications/devices.
type DeviceTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform,omitempty"`
}

// RecycledEntryResponse registro en la papelera.
type RecycledEntryResponse struct {
	ID            string    `json:"id"`
	ItemType      string    `json:"item_type"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	DeletedAt     time.Time `json:"deleted_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	DaysRemaining int       `json:"days_remaining"`
}

// RecordPurchaseRequest body para POST /api/subscriptions.
type RecordPurchaseRequest struct {
	ProductID     string     `json:"product_id"`
	PurchaseToken string     `json:"purchase_token"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	AutoRenew     bool       `json:"auto_renew"`
}

// SubscriptionResponse plan vigente y sus funciones.
type SubscriptionResponse struct {
	ProductID string     `json:"product_id,omitempty"`
	Tier      string     `json:"tier"`
	Active    bool       `json:"active"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	AutoRenew bool       `json:"auto_renew"`
	Features  []string   `json:"features"`
	// Next compra ya pagada que empieza cuando vence la vigente.
	Next *UpcomingPlanResponse `json:"next,omitempty"`
}

// UpcomingPlanResponse plan encadenado que aún no empieza.
type UpcomingPlanResponse struct {
	ProductID string    `json:"product_id"`
	Tier      string    `json:"tier"`
	StartsAt  time.Time `json:"starts_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MetalRateResponse tarifa vigente.
type MetalRateResponse struct {
	Metal       string          `json:"metal"`
	Purity      string          `json:"purity"`
	RatePerGram decimal.Decimal `json:"rate_per_gram"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
